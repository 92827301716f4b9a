//go:build integration

package serial

import (
	"reflect"
	"testing"
)

// TestIntegrationListPortsIdempotent enumerates the real serial registry
// twice. With no hardware change in between the listings must match.
func TestIntegrationListPortsIdempotent(t *testing.T) {
	first, err := SystemEnumerator{}.ListPorts()
	if err != nil {
		t.Fatalf("first listing failed: %v", err)
	}
	second, err := SystemEnumerator{}.ListPorts()
	if err != nil {
		t.Fatalf("second listing failed: %v", err)
	}

	t.Logf("found %d ports", len(first))
	if !reflect.DeepEqual(PortMap(first), PortMap(second)) {
		t.Fatalf("listings differ:\n%v\n%v", PortMap(first), PortMap(second))
	}
}
