package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/catalog-service/internal/domain"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает новый товар в каталоге
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		createProductRequest	true	"Товар"
//	@Success		201		{object}	messageResponse{data=productResponse}
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		500		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductRequest
	if err := decodeJSON(w, r, &body); err != nil {
		p.fail(w, err)
		return
	}

	if body.Price == nil {
		p.fail(w, e.Wrap("price is missing", e.ErrInvalidPrice))
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	product, err := p.productUsecase.CreateProduct(r.Context(),
		usecase.NewCreateProductReq(body.Name, body.Description, *body.Price, body.Stock, isActive))
	if err != nil {
		p.fail(w, err)
		return
	}

	p.logger.Infof("Product created: id=%d", product.ID)
	WriteSuccess(w, http.StatusCreated, messageResponse{
		Message: "Product created successfully",
		Data:    toProductResponse(product),
	})
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает товары с фильтрацией по строке поиска и активности
//	@Tags			products
//	@Produce		json
//	@Param			search		query		string	false	"Подстрока в названии или описании"
//	@Param			is_active	query		bool	false	"Фильтр по активности"
//	@Param			sort		query		string	false	"Сортировка column:order, например price:desc"
//	@Success		200			{object}	dataResponse{data=[]productResponse}
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	isActive, err := parseOptionalBool(r, "is_active")
	if err != nil {
		p.fail(w, err)
		return
	}

	order, err := domain.ParseProductOrder(query.Get("sort"))
	if err != nil {
		p.fail(w, err)
		return
	}

	products, err := p.productUsecase.ListProducts(r.Context(),
		usecase.NewListProductsReq(strings.TrimSpace(query.Get("search")), isActive, order))
	if err != nil {
		p.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dataResponse{Data: toArrProductResponse(products)})
}

// getProduct
//
//	@Summary	Получение товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	dataResponse{data=productResponse}
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.fail(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, dataResponse{Data: toProductResponse(product)})
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Частичное обновление: изменяются только переданные поля
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"ID товара"
//	@Param			product	body		updateProductRequest	true	"Изменяемые поля"
//	@Success		200		{object}	messageResponse{data=productResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [put]
//	@Router			/products/{id} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.fail(w, err)
		return
	}

	var body updateProductRequest
	if err := decodeJSON(w, r, &body); err != nil {
		p.fail(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		ID:          id,
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Stock:       body.Stock,
		IsActive:    body.IsActive,
	})
	if err != nil {
		p.fail(w, err)
		return
	}

	p.logger.Infof("Product updated: id=%d", product.ID)
	WriteSuccess(w, http.StatusOK, messageResponse{
		Message: "Product updated successfully",
		Data:    toProductResponse(product),
	})
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	messageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.fail(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.fail(w, err)
		return
	}

	p.logger.Infof("Product deleted: id=%d", id)
	WriteSuccess(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// fail логирует ошибку с уровнем по её коду и пишет ответ.
func (p *ProductHandler) fail(w http.ResponseWriter, err error) {
	logFailure(p.logger, err)
	WriteError(w, err)
}

func logFailure(log logger.Logger, err error) {
	code, msg := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s", code, msg)
		return
	}

	log.Warnf("%d %s: %s", code, msg, err.Error())
}
