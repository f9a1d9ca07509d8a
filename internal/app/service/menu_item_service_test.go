package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"restaurant_api/internal/common"
	"restaurant_api/internal/domain/model"
	"restaurant_api/internal/platform/cache"
	"restaurant_api/internal/platform/media"
	"sort"
	"strings"
	"testing"
	"time"
)

// fakeMenuRepo is an in-memory MenuItemRepository with sequential ids.
type fakeMenuRepo struct {
	items  map[int64]model.MenuItem
	nextID int64
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: map[int64]model.MenuItem{}}
}

func (r *fakeMenuRepo) List(ctx context.Context) ([]model.MenuItem, error) {
	items := []model.MenuItem{}
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeMenuRepo) FindByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &item, nil
}

func (r *fakeMenuRepo) Create(ctx context.Context, item *model.MenuItem) error {
	r.nextID++
	item.ID = r.nextID
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = *item
	return nil
}

func (r *fakeMenuRepo) Update(ctx context.Context, item *model.MenuItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return common.ErrNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeMenuRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// fakeCache is an in-memory Cache; TTLs are ignored.
type fakeCache struct {
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := c.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func newTestMenuService(t *testing.T) (*MenuItemService, *fakeMenuRepo, *fakeCache, string) {
	t.Helper()
	repo := newFakeMenuRepo()
	dir := t.TempDir()
	menuCache := newFakeCache()
	svc := NewMenuItemService(repo, media.NewLocalStore(dir), menuCache, time.Minute, 20*time.Millisecond)
	return svc, repo, menuCache, dir
}

func createItem(t *testing.T, svc *MenuItemService, name, fileName, content string) *model.MenuItem {
	t.Helper()
	item, err := svc.Create(context.Background(), CreateMenuItemRequest{
		Name:     name,
		Price:    9.99,
		Category: "Entree",
	}, fileName, strings.NewReader(content))
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", name, err)
	}
	return item
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestCreateWithoutFileFails(t *testing.T) {
	svc, repo, _, dir := newTestMenuService(t)

	_, err := svc.Create(context.Background(), CreateMenuItemRequest{
		Name: "Pizza", Price: 9.99, Category: "Entree",
	}, "", nil)
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("Create without file error = %v, want ErrBadRequest", err)
	}
	if len(repo.items) != 0 {
		t.Error("record created despite missing file")
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Errorf("files written despite missing file: %v", names)
	}
}

func TestCreateStoresImageAndRecord(t *testing.T) {
	svc, repo, _, _ := newTestMenuService(t)

	item := createItem(t, svc, "Paneer Pizza", "pizza.jpg", "jpeg-bytes")

	if item.ID == 0 {
		t.Error("item did not get an id")
	}
	if item.Slug != "paneer-pizza" {
		t.Errorf("slug = %q, want paneer-pizza", item.Slug)
	}
	if filepath.Ext(item.Image) != ".jpg" {
		t.Errorf("image %q did not preserve the .jpg extension", item.Image)
	}

	content, err := os.ReadFile(item.Image)
	if err != nil {
		t.Fatalf("image file missing: %v", err)
	}
	if string(content) != "jpeg-bytes" {
		t.Errorf("image content = %q, want jpeg-bytes", content)
	}

	stored, err := repo.FindByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("record missing: %v", err)
	}
	if stored.Image != item.Image {
		t.Errorf("record image = %q, want %q", stored.Image, item.Image)
	}
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, _, _, _ := newTestMenuService(t)

	_, err := svc.Create(context.Background(), CreateMenuItemRequest{
		Name: "Pizza", Price: -1, Category: "Entree",
	}, "p.jpg", strings.NewReader("x"))
	if !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("negative price error = %v, want ErrBadRequest", err)
	}
}

func TestGeneratedImageNamesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		name := newImageName("pizza.jpg")
		if seen[name] {
			t.Fatalf("generated name %q repeated", name)
		}
		if filepath.Ext(name) != ".jpg" {
			t.Fatalf("generated name %q lost the extension", name)
		}
		seen[name] = true
	}
}

func TestUpdateOverwritesScalarFields(t *testing.T) {
	svc, repo, _, _ := newTestMenuService(t)
	item := createItem(t, svc, "Pizza", "pizza.jpg", "v1")

	err := svc.Update(context.Background(), item.ID, UpdateMenuItemRequest{
		ID:          item.ID,
		Name:        "Paneer Tikka",
		Description: "grilled",
		Price:       13.99,
		Category:    "Entree",
		SpecialTag:  "Chef's Special",
	}, "", nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), item.ID)
	if stored.Name != "Paneer Tikka" || stored.Price != 13.99 || stored.SpecialTag != "Chef's Special" {
		t.Errorf("scalar fields not overwritten: %+v", stored)
	}
	if stored.Slug != "paneer-tikka" {
		t.Errorf("slug = %q, want paneer-tikka", stored.Slug)
	}
}

func TestUpdateWithoutFileLeavesImageUntouched(t *testing.T) {
	svc, repo, _, _ := newTestMenuService(t)
	item := createItem(t, svc, "Pizza", "pizza.jpg", "original-bytes")

	err := svc.Update(context.Background(), item.ID, UpdateMenuItemRequest{
		ID: item.ID, Name: "Pizza", Price: 9.99, Category: "Entree",
	}, "", nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), item.ID)
	if stored.Image != item.Image {
		t.Errorf("image path changed: %q -> %q", item.Image, stored.Image)
	}
	content, err := os.ReadFile(stored.Image)
	if err != nil {
		t.Fatalf("image file missing after update: %v", err)
	}
	if string(content) != "original-bytes" {
		t.Errorf("image content changed: %q", content)
	}
}

func TestUpdateWithFileReplacesImage(t *testing.T) {
	svc, repo, _, dir := newTestMenuService(t)
	item := createItem(t, svc, "Pizza", "pizza.jpg", "old-bytes")

	err := svc.Update(context.Background(), item.ID, UpdateMenuItemRequest{
		ID: item.ID, Name: "Pizza", Price: 9.99, Category: "Entree",
	}, "pizza2.png", strings.NewReader("new-bytes"))
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := os.Stat(item.Image); !os.IsNotExist(err) {
		t.Error("old image still exists after replacement")
	}

	stored, _ := repo.FindByID(context.Background(), item.ID)
	if stored.Image == item.Image {
		t.Error("image path was not replaced")
	}
	if filepath.Ext(stored.Image) != ".png" {
		t.Errorf("new image %q did not preserve the .png extension", stored.Image)
	}
	content, err := os.ReadFile(stored.Image)
	if err != nil {
		t.Fatalf("new image missing: %v", err)
	}
	if string(content) != "new-bytes" {
		t.Errorf("new image content = %q, want new-bytes", content)
	}
	if names := dirEntries(t, dir); len(names) != 1 {
		t.Errorf("expected exactly one stored file, got %v", names)
	}
}

func TestUpdateIDMismatch(t *testing.T) {
	svc, _, _, _ := newTestMenuService(t)
	item := createItem(t, svc, "Pizza", "pizza.jpg", "x")

	err := svc.Update(context.Background(), item.ID, UpdateMenuItemRequest{
		ID: item.ID + 1, Name: "Pizza", Price: 9.99, Category: "Entree",
	}, "", nil)
	if !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("id mismatch error = %v, want ErrBadRequest", err)
	}
}

func TestUpdateMissingItemIsBadRequest(t *testing.T) {
	svc, _, _, _ := newTestMenuService(t)

	err := svc.Update(context.Background(), 42, UpdateMenuItemRequest{
		ID: 42, Name: "Ghost", Price: 1, Category: "Entree",
	}, "", nil)
	if !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("missing item error = %v, want ErrBadRequest", err)
	}
}

func TestDeleteRemovesFileAndRecordAfterDelay(t *testing.T) {
	svc, repo, _, dir := newTestMenuService(t)
	item := createItem(t, svc, "Pizza", "pizza.jpg", "x")

	start := time.Now()
	if err := svc.Delete(context.Background(), item.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Delete returned after %v, want at least the configured delay", elapsed)
	}

	if _, err := repo.FindByID(context.Background(), item.ID); !errors.Is(err, common.ErrNotFound) {
		t.Error("record still present after delete")
	}
	if names := dirEntries(t, dir); len(names) != 0 {
		t.Errorf("files left behind after delete: %v", names)
	}
}

func TestDeleteSentinelAndMissingID(t *testing.T) {
	svc, _, _, _ := newTestMenuService(t)

	if err := svc.Delete(context.Background(), 0); !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("zero id error = %v, want ErrBadRequest", err)
	}
	if err := svc.Delete(context.Background(), 42); !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("missing id error = %v, want ErrBadRequest", err)
	}
}

func TestListReadsThroughCacheAndMutationsInvalidate(t *testing.T) {
	svc, _, menuCache, _ := newTestMenuService(t)
	item := createItem(t, svc, "Pizza", "pizza.jpg", "x")

	first, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(first) != 1 || first[0].ID != item.ID {
		t.Fatalf("List = %+v, want the created item", first)
	}
	if _, ok := menuCache.entries[menuListCacheKey]; !ok {
		t.Error("list was not cached")
	}

	// A second item invalidates the cached list and shows up on re-read.
	createItem(t, svc, "Idli", "idli.jpg", "y")
	if _, ok := menuCache.entries[menuListCacheKey]; ok {
		t.Error("cache not invalidated by create")
	}
	second, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(second) != 2 {
		t.Errorf("List after create = %d items, want 2", len(second))
	}
}
