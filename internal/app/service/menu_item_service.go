package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"path/filepath"
	"restaurant_api/internal/common"
	"restaurant_api/internal/domain/model"
	"restaurant_api/internal/domain/repository"
	"restaurant_api/internal/platform/cache"
	"restaurant_api/internal/platform/media"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const menuListCacheKey = "menu_items:list"

type MenuItemService struct {
	menuRepo    repository.MenuItemRepository
	media       media.Store
	cache       cache.Cache
	cacheTTL    time.Duration
	deleteDelay time.Duration
}

func NewMenuItemService(
	menuRepo repository.MenuItemRepository,
	mediaStore media.Store,
	menuCache cache.Cache,
	cacheTTL time.Duration,
	deleteDelay time.Duration,
) *MenuItemService {
	return &MenuItemService{
		menuRepo:    menuRepo,
		media:       mediaStore,
		cache:       menuCache,
		cacheTTL:    cacheTTL,
		deleteDelay: deleteDelay,
	}
}

type CreateMenuItemRequest struct {
	Name        string
	Description string
	Price       float64
	Category    string
	SpecialTag  string
}

type UpdateMenuItemRequest struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	SpecialTag  string
}

// List returns all menu items, read through the Redis cache when possible.
// Cache trouble is logged and ignored; Postgres stays the source of truth.
func (s *MenuItemService) List(ctx context.Context) ([]model.MenuItem, error) {
	if cached, err := s.cache.Get(ctx, menuListCacheKey); err == nil {
		var items []model.MenuItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("menu cache read failed: %v", err)
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, menuListCacheKey, string(encoded), s.cacheTTL); err != nil {
			log.Printf("menu cache write failed: %v", err)
		}
	}
	return items, nil
}

func (s *MenuItemService) GetByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	return s.menuRepo.FindByID(ctx, id)
}

// Create stores the image before the record so a failed insert can never
// leave a row pointing at a file that was never written.
func (s *MenuItemService) Create(ctx context.Context, req CreateMenuItemRequest, fileName string, file io.Reader) (*model.MenuItem, error) {
	if file == nil {
		return nil, common.Errorf("image file is required: %w", common.ErrBadRequest)
	}
	if req.Name == "" || req.Category == "" {
		return nil, common.Errorf("name and category are required: %w", common.ErrBadRequest)
	}
	if req.Price < 0 {
		return nil, common.Errorf("price must be non-negative: %w", common.ErrBadRequest)
	}

	storedName := newImageName(fileName)
	imagePath, err := s.media.Upload(storedName, file)
	if err != nil {
		return nil, common.Errorf("failed to store image: %w", err)
	}

	item := &model.MenuItem{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SpecialTag:  req.SpecialTag,
		Image:       imagePath,
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, common.Errorf("failed to create menu item: %w", err)
	}

	s.invalidateList(ctx)
	return item, nil
}

// Update overwrites every scalar field from the request. The image is only
// touched when a replacement file is attached: the old file is removed
// (best-effort, named by the last path segment), then the new one uploaded.
func (s *MenuItemService) Update(ctx context.Context, pathID int64, req UpdateMenuItemRequest, fileName string, file io.Reader) error {
	if pathID == 0 || req.ID != pathID {
		return common.Errorf("menu item id mismatch: %w", common.ErrBadRequest)
	}
	if req.Price < 0 {
		return common.Errorf("price must be non-negative: %w", common.ErrBadRequest)
	}

	item, err := s.menuRepo.FindByID(ctx, pathID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf("menu item not found: %w", common.ErrBadRequest)
		}
		return err
	}

	item.Name = req.Name
	item.Slug = slug.Make(req.Name)
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	item.SpecialTag = req.SpecialTag

	if file != nil {
		if err := s.media.Delete(filepath.Base(item.Image)); err != nil {
			log.Printf("failed to delete old image %q: %v", item.Image, err)
		}
		imagePath, err := s.media.Upload(newImageName(fileName), file)
		if err != nil {
			return common.Errorf("failed to store image: %w", err)
		}
		item.Image = imagePath
	}

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return common.Errorf("failed to update menu item: %w", err)
	}

	s.invalidateList(ctx)
	return nil
}

// Delete removes the image first, pauses for the configured delay, then
// removes the record. There is no rollback for the already-deleted file if
// the record removal fails; that window is accepted.
func (s *MenuItemService) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return common.Errorf("menu item id is required: %w", common.ErrBadRequest)
	}

	item, err := s.menuRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf("menu item not found: %w", common.ErrBadRequest)
		}
		return err
	}

	if err := s.media.Delete(filepath.Base(item.Image)); err != nil {
		return common.Errorf("failed to delete image: %w", err)
	}

	time.Sleep(s.deleteDelay)

	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return common.Errorf("failed to delete menu item: %w", err)
	}

	s.invalidateList(ctx)
	return nil
}

func (s *MenuItemService) invalidateList(ctx context.Context) {
	if err := s.cache.Del(ctx, menuListCacheKey); err != nil {
		log.Printf("menu cache invalidation failed: %v", err)
	}
}

// newImageName generates a collision-resistant stored name, preserving the
// original file's extension.
func newImageName(originalName string) string {
	return uuid.NewString() + filepath.Ext(originalName)
}
