package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"restaurant_api/internal/api/middleware"
	"restaurant_api/internal/app/service"
	"restaurant_api/internal/common"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 32 << 20 // 32MB

type MenuItemHandler struct {
	menuService *service.MenuItemService
}

func NewMenuItemHandler(ms *service.MenuItemService) *MenuItemHandler {
	return &MenuItemHandler{menuService: ms}
}

func (h *MenuItemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listMenuItems)    // GET /api/menu-item
	r.Get("/{id}", h.getMenuItem)  // GET /api/menu-item/5

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createMenuItem)
		adminRouter.Put("/{id}", h.updateMenuItem)
		adminRouter.Delete("/{id}", h.deleteMenuItem)
	})
}

func (h *MenuItemHandler) listMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.menuService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewResponse(http.StatusOK, items))
}

func (h *MenuItemHandler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		common.RespondWithError(w, http.StatusBadRequest)
		return
	}

	item, err := h.menuService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.RespondWithError(w, http.StatusNotFound)
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewResponse(http.StatusOK, item))
}

func (h *MenuItemHandler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := h.formFile(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid price: "+r.FormValue("price"))
		return
	}

	req := service.CreateMenuItemRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("category"),
		SpecialTag:  r.FormValue("specialTag"),
	}

	item, err := h.menuService.Create(r.Context(), req, header.Filename, file)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/menu-item/%d", item.ID))
	common.RespondWithJSON(w, http.StatusCreated, common.NewResponse(http.StatusCreated, item))
}

func (h *MenuItemHandler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	pathID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid menu item id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	bodyID, _ := strconv.ParseInt(r.FormValue("id"), 10, 64)
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid price: "+r.FormValue("price"))
		return
	}

	req := service.UpdateMenuItemRequest{
		ID:          bodyID,
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("category"),
		SpecialTag:  r.FormValue("specialTag"),
	}

	// The replacement image is optional on update.
	var fileName string
	var fileReader io.Reader
	if file, header, err := h.formFile(r); err == nil {
		defer file.Close()
		fileName = header.Filename
		fileReader = file
	}

	if err := h.menuService.Update(r.Context(), pathID, req, fileName, fileReader); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewResponse(http.StatusNoContent, nil))
}

func (h *MenuItemHandler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid menu item id")
		return
	}

	if err := h.menuService.Delete(r.Context(), id); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewResponse(http.StatusNoContent, nil))
}

// formFile fetches the "file" part, treating an attached but empty payload
// the same as a missing one.
func (h *MenuItemHandler) formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, err
	}
	if header.Size == 0 {
		file.Close()
		return nil, nil, errors.New("empty file payload")
	}
	return file, header, nil
}
