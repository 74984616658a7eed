package tags

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/mwantia/imagekeeper/pkg/db/models"
)

type pair struct {
	asset uint
	tag   uint
}

// fakeStore keeps tags and associations in memory and counts writes.
type fakeStore struct {
	tags   map[string]uint
	links  map[pair]bool
	nextID uint

	writes  int
	failAdd error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tags:  map[string]uint{},
		links: map[pair]bool{},
	}
}

func (f *fakeStore) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	if id, ok := f.tags[name]; ok {
		return &models.Tag{ID: id, Name: name}, nil
	}
	f.nextID++
	f.writes++
	f.tags[name] = f.nextID
	return &models.Tag{ID: f.nextID, Name: name}, nil
}

func (f *fakeStore) ListAssetTagIDs(ctx context.Context, assetID uint) ([]uint, error) {
	var ids []uint
	for p := range f.links {
		if p.asset == assetID {
			ids = append(ids, p.tag)
		}
	}
	return ids, nil
}

func (f *fakeStore) AddAssetTag(ctx context.Context, assetID, tagID uint) error {
	if f.failAdd != nil {
		return f.failAdd
	}
	f.writes++
	f.links[pair{assetID, tagID}] = true
	return nil
}

func (f *fakeStore) RemoveAssetTag(ctx context.Context, assetID, tagID uint) error {
	f.writes++
	delete(f.links, pair{assetID, tagID})
	return nil
}

func (f *fakeStore) tagNames(assetID uint) []string {
	byID := map[uint]string{}
	for name, id := range f.tags {
		byID[id] = name
	}
	var names []string
	for p := range f.links {
		if p.asset == assetID {
			names = append(names, byID[p.tag])
		}
	}
	sort.Strings(names)
	return names
}

func TestReconcile_NewAssetAddsAll(t *testing.T) {
	st := newFakeStore()

	res, err := Reconcile(context.Background(), st, 1, []string{"pets", " cute ", "", "pets"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(res.Added) != 2 || len(res.Removed) != 0 {
		t.Fatalf("result = %+v, want 2 added", res)
	}
	if got := st.tagNames(1); !reflect.DeepEqual(got, []string{"cute", "pets"}) {
		t.Fatalf("tags = %v", got)
	}
}

func TestReconcile_ComputesMinimalDelta(t *testing.T) {
	st := newFakeStore()
	ctx := context.Background()

	if _, err := Reconcile(ctx, st, 7, []string{"A", "B", "C"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	idA := st.tags["A"]

	res, err := Reconcile(ctx, st, 7, []string{"B", "C", "D"})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	idD := st.tags["D"]

	if !reflect.DeepEqual(res.Removed, []uint{idA}) {
		t.Fatalf("removed = %v, want [%d]", res.Removed, idA)
	}
	if !reflect.DeepEqual(res.Added, []uint{idD}) {
		t.Fatalf("added = %v, want [%d]", res.Added, idD)
	}
	if got := st.tagNames(7); !reflect.DeepEqual(got, []string{"B", "C", "D"}) {
		t.Fatalf("tags = %v", got)
	}
	if _, ok := st.tags["A"]; !ok {
		t.Fatalf("tag A must survive losing its association")
	}
}

func TestReconcile_ConvergesWithoutWrites(t *testing.T) {
	st := newFakeStore()
	ctx := context.Background()
	desired := []string{"pets", "cute"}

	if _, err := Reconcile(ctx, st, 3, desired); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	before := st.writes

	res, err := Reconcile(ctx, st, 3, desired)
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if res.Changed() {
		t.Fatalf("second pass changed associations: %+v", res)
	}
	if st.writes != before {
		t.Fatalf("second pass performed %d writes", st.writes-before)
	}
}

func TestReconcile_EmptyDesiredClearsAssociations(t *testing.T) {
	st := newFakeStore()
	ctx := context.Background()

	if _, err := Reconcile(ctx, st, 2, []string{"x", "y"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	res, err := Reconcile(ctx, st, 2, []string{"  ", ""})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(res.Removed) != 2 {
		t.Fatalf("removed = %v, want 2 ids", res.Removed)
	}
	if got := st.tagNames(2); len(got) != 0 {
		t.Fatalf("tags = %v, want none", got)
	}
}

func TestReconcile_OnlyTouchesGivenAsset(t *testing.T) {
	st := newFakeStore()
	ctx := context.Background()

	_, _ = Reconcile(ctx, st, 1, []string{"shared"})
	_, _ = Reconcile(ctx, st, 2, []string{"shared"})

	if _, err := Reconcile(ctx, st, 1, nil); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := st.tagNames(2); !reflect.DeepEqual(got, []string{"shared"}) {
		t.Fatalf("asset 2 tags = %v", got)
	}
}

func TestReconcile_PropagatesStoreErrors(t *testing.T) {
	st := newFakeStore()
	st.failAdd = errors.New("disk full")

	_, err := Reconcile(context.Background(), st, 1, []string{"pets"})
	if !errors.Is(err, st.failAdd) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(" pets, cute,,pets ,  ")
	if !reflect.DeepEqual(got, []string{"pets", "cute"}) {
		t.Fatalf("ParseList = %v", got)
	}
	if got := ParseList(""); len(got) != 0 {
		t.Fatalf("ParseList(\"\") = %v", got)
	}
}

func TestSuggest(t *testing.T) {
	vocabulary := []string{"Cute", "cats", "pets", "portrait"}

	cases := []struct {
		entry string
		want  []string
	}{
		{"c", []string{"Cute", "cats"}},
		{"pets, C", []string{"pets, Cute", "pets, cats"}},
		{"cats, c", []string{"cats, Cute"}},
		{"p", []string{"pets", "portrait"}},
		{"zzz", nil},
	}

	for _, tc := range cases {
		if got := Suggest(tc.entry, vocabulary); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Suggest(%q) = %v, want %v", tc.entry, got, tc.want)
		}
	}
}
