package packets

import (
	"strings"
	"testing"
)

func TestCatalog_Size(t *testing.T) {
	if n := CatalogSize(); n != 115 {
		t.Errorf("CatalogSize() = %d, want 115", n)
	}
}

func TestCatalog_NoDuplicateIDs(t *testing.T) {
	seen := make(map[ID]string)
	for _, def := range Catalog() {
		if prev, ok := seen[def.ID]; ok {
			t.Errorf("opcode %d catalogued twice: %s and %s", def.ID, prev, def.Name)
		}
		seen[def.ID] = def.Name
	}
}

func TestCatalog_Categories(t *testing.T) {
	known := map[Category]bool{
		CategoryCore:     true,
		CategorySystem:   true,
		CategoryFiles:    true,
		CategoryMovement: true,
		CategoryNPCs:     true,
		CategoryUI:       true,
		CategoryCombat:   true,
		CategoryUnknown:  true,
	}

	used := make(map[Category]bool)
	for _, def := range Catalog() {
		if !known[def.Category] {
			t.Errorf("%s carries unrecognized category %q", def.Name, def.Category)
		}
		used[def.Category] = true
	}

	// Every documented category should have at least one member.
	for cat := range known {
		if !used[cat] {
			t.Errorf("category %q has no catalog entries", cat)
		}
	}
}

func TestCatalog_UnstudiedEntriesAreOpaque(t *testing.T) {
	for _, def := range Catalog() {
		isUnknownName := strings.HasPrefix(def.Name, "PLO_UNKNOWN")
		isUnknownCategory := def.Category == CategoryUnknown
		if isUnknownName != isUnknownCategory {
			t.Errorf("%s: placeholder naming and CategoryUnknown must coincide", def.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	def := Lookup(PLOSignature)
	if def.Name != "PLO_SIGNATURE" || def.Category != CategorySystem {
		t.Errorf("Lookup(PLOSignature) = %+v", def)
	}

	// Ids outside the catalog still resolve; nothing about dispatch may
	// depend on an opcode being documented.
	def = Lookup(200)
	if def.Name != "PLO_UNKNOWN200" || def.Category != CategoryUnknown {
		t.Errorf("Lookup(200) = %+v, want a pass-through definition", def)
	}
}

func TestIsFileTransferOpcode(t *testing.T) {
	for _, id := range []ID{PLOLargeFileStart, PLOLargeFileSize, PLOLargeFileEnd, PLOFile, PLORawData} {
		if !IsFileTransferOpcode(id) {
			t.Errorf("IsFileTransferOpcode(%d) = false, want true", id)
		}
	}
	for _, id := range []ID{PLOSignature, PLOToAll, PLOFileUpToDate} {
		if IsFileTransferOpcode(id) {
			t.Errorf("IsFileTransferOpcode(%d) = true, want false", id)
		}
	}
}
