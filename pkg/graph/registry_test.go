package graph

import (
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

func TestRegistryCollectionIsZero(t *testing.T) {
	r := NewRegistry("HCLE")

	c := r.Collection()
	if c.Identity != 0 || c.Entity.Label() != "HCLE" || c.Entity.Kind != common.KindCollection {
		t.Fatalf("Collection() = %+v", c)
	}
	id, isNew := r.Resolve(common.NewCollection("HCLE"))
	if id != 0 || isNew {
		t.Fatalf("Resolve(collection) = %d, %v, want 0, false", id, isNew)
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry("HCLE")

	steps := []struct {
		entity  common.Entity
		wantID  int64
		wantNew bool
	}{
		{common.NewItem(common.ItemData{ArtifactData: common.ArtifactData{Title: "Pin"}, PartNum: "12"}), 1, true},
		{common.NewPerson("Jane", "Doe"), 2, true},
		{common.NewItem(common.ItemData{ArtifactData: common.ArtifactData{Title: "Pin", Description: "other"}, PartNum: "12"}), 1, false},
		{common.NewItem(common.ItemData{ArtifactData: common.ArtifactData{Title: "Pin"}, PartNum: "13"}), 3, true},
		{common.NewArtifact(common.ArtifactData{Title: "Pin"}), 4, true},
		{common.NewOrganization("Jane Doe"), 5, true},
		{common.NewPerson("Jane", "Doe"), 2, false},
	}

	for i, s := range steps {
		id, isNew := r.Resolve(s.entity)
		if id != s.wantID || isNew != s.wantNew {
			t.Fatalf("step %d: Resolve() = %d, %v, want %d, %v", i, id, isNew, s.wantID, s.wantNew)
		}
	}

	if r.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", r.Len())
	}
	for i, n := range r.Entities() {
		if n.Identity != int64(i) {
			t.Fatalf("Entities()[%d].Identity = %d", i, n.Identity)
		}
	}

	// first registration keeps its attributes
	if got := r.Entities()[1].Entity.Item.Description; got != "" {
		t.Fatalf("description = %q, want first-seen empty value", got)
	}

	want := map[common.EntityKind]int{
		common.KindCollection:   1,
		common.KindItem:         2,
		common.KindPerson:       1,
		common.KindArtifact:     1,
		common.KindOrganization: 1,
	}
	if got := r.CountsByKind(); !reflect.DeepEqual(got, want) {
		t.Fatalf("CountsByKind() = %v, want %v", got, want)
	}

	if id, ok := r.Lookup(common.NewPerson("Jane", "Doe").Key()); !ok || id != 2 {
		t.Fatalf("Lookup() = %d, %v", id, ok)
	}
	if _, ok := r.Lookup(common.NewPerson("John", "Doe").Key()); ok {
		t.Fatalf("Lookup() found unknown key")
	}
}
