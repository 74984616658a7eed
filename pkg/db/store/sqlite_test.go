package store

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/mwantia/imagekeeper/pkg/db/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "catalog.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

func countRows(t *testing.T, s *SQLiteStore, model any) int64 {
	t.Helper()

	var n int64
	if err := s.DB().Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func createAsset(t *testing.T, s *SQLiteStore, creatorID uint, filename string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Filename:      filename,
		DirectoryPath: "images",
		CreatorID:     &creatorID,
	}
	if err := s.CreateAsset(context.Background(), asset); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	return asset
}

func TestNewSQLiteStore_RequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(SQLiteConfig{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestFindOrCreateCreator_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.FindOrCreateCreator(ctx, "Alice")
	if err != nil {
		t.Fatalf("FindOrCreateCreator: %v", err)
	}
	second, err := s.FindOrCreateCreator(ctx, "Alice")
	if err != nil {
		t.Fatalf("FindOrCreateCreator (again): %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("ids differ: %d vs %d", first.ID, second.ID)
	}
	if n := countRows(t, s, &models.Creator{}); n != 1 {
		t.Fatalf("creators = %d, want 1", n)
	}
}

func TestFindCreatorByName_IsCaseSensitive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.FindOrCreateCreator(ctx, "Alice"); err != nil {
		t.Fatalf("FindOrCreateCreator: %v", err)
	}

	_, err := s.FindCreatorByName(ctx, "alice")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindCreatorByName(alice) err = %v, want ErrNotFound", err)
	}
}

func TestCreateCreator_DuplicateName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.CreateCreator(ctx, &models.Creator{Name: "Bob"}); err != nil {
		t.Fatalf("CreateCreator: %v", err)
	}
	err := s.CreateCreator(ctx, &models.Creator{Name: "Bob"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestFindOrCreateTag_CreatesBareTagOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tag, err := s.FindOrCreateTag(ctx, "pets")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	if tag.Description != nil || tag.Category != nil {
		t.Fatalf("expected null description/category, got %+v", tag)
	}

	again, err := s.FindOrCreateTag(ctx, "pets")
	if err != nil {
		t.Fatalf("FindOrCreateTag (again): %v", err)
	}
	if again.ID != tag.ID {
		t.Fatalf("ids differ: %d vs %d", tag.ID, again.ID)
	}
	if n := countRows(t, s, &models.Tag{}); n != 1 {
		t.Fatalf("tags = %d, want 1", n)
	}
}

func TestCreateTag_UniqueIndexRejectsDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	desc := "animals"
	if err := s.CreateTag(ctx, &models.Tag{Name: "pets", Description: &desc}); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	err := s.CreateTag(ctx, &models.Tag{Name: "pets"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestAssetTag_AddAndRemoveAreIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	creator, _ := s.FindOrCreateCreator(ctx, "Alice")
	asset := createAsset(t, s, creator.ID, "cat.jpg")
	tag, _ := s.FindOrCreateTag(ctx, "cute")

	for i := 0; i < 2; i++ {
		if err := s.AddAssetTag(ctx, asset.ID, tag.ID); err != nil {
			t.Fatalf("AddAssetTag #%d: %v", i, err)
		}
	}
	ids, err := s.ListAssetTagIDs(ctx, asset.ID)
	if err != nil {
		t.Fatalf("ListAssetTagIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != tag.ID {
		t.Fatalf("ids = %v, want [%d]", ids, tag.ID)
	}

	for i := 0; i < 2; i++ {
		if err := s.RemoveAssetTag(ctx, asset.ID, tag.ID); err != nil {
			t.Fatalf("RemoveAssetTag #%d: %v", i, err)
		}
	}
	if n := countRows(t, s, &models.AssetTag{}); n != 0 {
		t.Fatalf("asset_tags = %d, want 0", n)
	}
	if n := countRows(t, s, &models.Tag{}); n != 1 {
		t.Fatalf("tag rows must survive association removal, got %d", n)
	}
}

func TestDeleteAsset_CascadesAssociations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	creator, _ := s.FindOrCreateCreator(ctx, "Alice")
	keep := createAsset(t, s, creator.ID, "dog.jpg")
	drop := createAsset(t, s, creator.ID, "cat.jpg")
	tag, _ := s.FindOrCreateTag(ctx, "pets")

	_ = s.AddAssetTag(ctx, keep.ID, tag.ID)
	_ = s.AddAssetTag(ctx, drop.ID, tag.ID)

	if err := s.DeleteAsset(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	if _, err := s.GetAsset(ctx, drop.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetAsset after delete err = %v, want ErrNotFound", err)
	}
	if n := countRows(t, s, &models.AssetTag{}); n != 1 {
		t.Fatalf("asset_tags = %d, want 1", n)
	}

	if err := s.DeleteAsset(ctx, drop.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteAsset err = %v, want ErrNotFound", err)
	}
}

func TestGetAsset_PreloadsCreator(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	creator, _ := s.FindOrCreateCreator(ctx, "Alice")
	asset := createAsset(t, s, creator.ID, "cat.jpg")

	got, err := s.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if got.Creator == nil || got.Creator.Name != "Alice" {
		t.Fatalf("creator not preloaded: %+v", got.Creator)
	}
	if got.Path() != filepath.Join("images", "cat.jpg") {
		t.Fatalf("Path() = %q", got.Path())
	}
}

func TestListAssetsWithAggregatedTags(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	creator, _ := s.FindOrCreateCreator(ctx, "Alice")
	tagged := createAsset(t, s, creator.ID, "cat.jpg")
	bare := createAsset(t, s, creator.ID, "dog.jpg")

	for _, name := range []string{"pets", "cute"} {
		tag, err := s.FindOrCreateTag(ctx, name)
		if err != nil {
			t.Fatalf("FindOrCreateTag: %v", err)
		}
		if err := s.AddAssetTag(ctx, tagged.ID, tag.ID); err != nil {
			t.Fatalf("AddAssetTag: %v", err)
		}
	}

	views, err := s.ListAssetsWithAggregatedTags(ctx)
	if err != nil {
		t.Fatalf("ListAssetsWithAggregatedTags: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}

	byID := map[uint]models.AssetView{}
	for _, v := range views {
		byID[v.ID] = v
	}

	names := byID[tagged.ID].TagNames()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "cute" || names[1] != "pets" {
		t.Fatalf("tag names = %v, want [cute pets]", names)
	}
	if byID[tagged.ID].Creator != "Alice" {
		t.Fatalf("creator = %q, want Alice", byID[tagged.ID].Creator)
	}
	if got := byID[bare.ID].TagNames(); len(got) != 0 {
		t.Fatalf("untagged asset has tags %v", got)
	}
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx MetadataStore) error {
		if _, err := tx.FindOrCreateCreator(ctx, "Alice"); err != nil {
			return err
		}
		if _, err := tx.FindOrCreateTag(ctx, "pets"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if n := countRows(t, s, &models.Creator{}); n != 0 {
		t.Fatalf("creators = %d, want 0 after rollback", n)
	}
	if n := countRows(t, s, &models.Tag{}); n != 0 {
		t.Fatalf("tags = %d, want 0 after rollback", n)
	}
}

func TestSocials(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	creator, _ := s.FindOrCreateCreator(ctx, "Alice")
	if err := s.CreateSocial(ctx, &models.Social{CreatorID: creator.ID, Handle: "@alice", Type: "twitter"}); err != nil {
		t.Fatalf("CreateSocial: %v", err)
	}

	socials, err := s.ListSocials(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListSocials: %v", err)
	}
	if len(socials) != 1 || socials[0].Handle != "@alice" {
		t.Fatalf("socials = %+v", socials)
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("info") == ParseLogLevel("silent") {
		t.Fatalf("info and silent must differ")
	}
	if ParseLogLevel("nonsense") != ParseLogLevel("") {
		t.Fatalf("unknown levels should be silent")
	}
}
