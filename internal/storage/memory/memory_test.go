package memory

import (
	"testing"

	"cnct/internal/domain/sales"
	"cnct/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(*testing.T) sales.StoreAPI { return New() })
}

func TestListAllReturnsCopy(t *testing.T) {
	store := New(storagetest.Entry(t, "Cado", "2024-11-05", "100"))
	entries, _ := store.ListAll(t.Context())
	entries[0].ChatterName = "changed"
	again, _ := store.ListAll(t.Context())
	if again[0].ChatterName != "Cado" {
		t.Fatal("ListAll must not expose internal state")
	}
}
