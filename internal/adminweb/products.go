package adminweb

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minimart-io/minimart/internal/imagestore"
	"github.com/minimart-io/minimart/internal/product"
)

// productView is a product row annotated for rendering
type productView struct {
	ID            int64
	Name          string
	Category      string
	Description   string
	Image         string
	Price         float64
	Index         int
	IsRemoteImage bool
}

func (h *Handler) listProducts(c echo.Context) error {
	products, err := h.products.All(c.Request().Context())
	if err != nil {
		zap.L().Error("failed to fetch products", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	views := make([]productView, 0, len(products))
	for i, p := range products {
		views = append(views, productView{
			ID:            p.ID,
			Name:          p.Name,
			Category:      p.Category,
			Description:   p.Description,
			Image:         p.Image,
			Price:         p.Price,
			Index:         i + 1,
			IsRemoteImage: imagestore.IsRemote(p.Image),
		})
	}
	return c.Render(http.StatusOK, "admin/view-products", map[string]interface{}{
		"Products": views,
		"Flashes":  h.takeFlashes(c),
	})
}

func (h *Handler) addProductPage(c echo.Context) error {
	return c.Render(http.StatusOK, "admin/add-product", map[string]interface{}{
		"Flashes": h.takeFlashes(c),
	})
}

// formData extracts the product fields from the submitted form. Absent
// or empty fields stay unset so updates only touch what was provided.
func formData(c echo.Context) product.Data {
	data := product.Data{
		Name:        c.FormValue("name"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
	}
	if raw := c.FormValue("price"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			data.Price = &price
		}
	}
	return data
}

func (h *Handler) uploadImage(c echo.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.images.Put(c.Request().Context(), file.Filename, src)
}

func (h *Handler) addProduct(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image is required")
	}

	ref, err := h.uploadImage(c, file)
	if err != nil {
		zap.L().Error("image upload failed", zap.String("filename", file.Filename), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Image upload failed")
	}

	data := formData(c)
	data.Image = ref

	p, err := h.products.Add(c.Request().Context(), data)
	switch {
	case err == product.ErrDuplicateName:
		// the uploaded asset has no owner, drop it again
		_ = h.images.Remove(c.Request().Context(), ref)
		h.addFlash(c, flashError, fmt.Sprintf("Product %q already exists", data.Name))
		return c.Redirect(http.StatusFound, "/admin/add-product")
	case err != nil:
		zap.L().Error("failed to add product", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.oprLog(c, "add-product", fmt.Sprintf("added product %s (id %d)", p.Name, p.ID))
	h.addFlash(c, flashSuccess, fmt.Sprintf("Product %q added", p.Name))
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) editProductPage(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}
	p, err := h.products.Get(c.Request().Context(), id)
	if err == product.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	return c.Render(http.StatusOK, "admin/edit-product", map[string]interface{}{
		"Product":       p,
		"IsRemoteImage": imagestore.IsRemote(p.Image),
		"Flashes":       h.takeFlashes(c),
	})
}

func (h *Handler) editProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}
	ctx := c.Request().Context()

	old, err := h.products.Get(ctx, id)
	if err == product.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	data := formData(c)

	if file, ferr := c.FormFile("image"); ferr == nil {
		// replacing the image: drop the old asset first, best-effort
		if rerr := h.images.Remove(ctx, old.Image); rerr != nil {
			zap.L().Warn("failed to remove old image", zap.String("ref", old.Image), zap.Error(rerr))
		}
		ref, uerr := h.uploadImage(c, file)
		if uerr != nil {
			zap.L().Error("image upload failed", zap.String("filename", file.Filename), zap.Error(uerr))
			return echo.NewHTTPError(http.StatusInternalServerError, "Image upload failed")
		}
		data.Image = ref
	}

	p, err := h.products.Update(ctx, id, data)
	switch {
	case err == product.ErrDuplicateName:
		h.addFlash(c, flashError, fmt.Sprintf("Product %q already exists", data.Name))
		return c.Redirect(http.StatusFound, fmt.Sprintf("/admin/edit-product/%d", id))
	case err != nil:
		zap.L().Error("failed to update product", zap.Int64("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	h.oprLog(c, "edit-product", fmt.Sprintf("updated product %s (id %d)", p.Name, p.ID))
	h.addFlash(c, flashSuccess, fmt.Sprintf("Product %q updated", p.Name))
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}
	ctx := c.Request().Context()

	p, err := h.products.Delete(ctx, id)
	switch {
	case err == product.ErrNotFound:
		h.addFlash(c, flashError, "Product not found")
		return c.Redirect(http.StatusFound, "/admin")
	case err != nil:
		zap.L().Error("failed to delete product", zap.Int64("id", id), zap.Error(err))
		h.addFlash(c, flashError, "Error deleting product")
		return c.Redirect(http.StatusFound, "/admin")
	}

	if err := h.images.Remove(ctx, p.Image); err != nil {
		zap.L().Warn("failed to remove product image", zap.String("ref", p.Image), zap.Error(err))
		h.addFlash(c, flashError, "Product deleted, image cleanup failed")
	} else {
		h.addFlash(c, flashSuccess, "Product and image deleted successfully")
	}

	h.oprLog(c, "delete-product", fmt.Sprintf("deleted product %s (id %d)", p.Name, p.ID))
	return c.Redirect(http.StatusFound, "/admin")
}
