package converter

import (
	"github.com/DRSN-tech/catalog-service/internal/domain"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

type ProductConverterImpl struct{}

func NewProductConverter() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		Stock:       entity.Stock,
		IsActive:    entity.IsActive,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		Stock:       model.Stock,
		IsActive:    model.IsActive,
		CreatedAt:   model.CreatedAt.UTC(),
		UpdatedAt:   model.UpdatedAt.UTC(),
	}
}

func (c *ProductConverterImpl) ToArrEntity(models []ProductModel) []domain.Product {
	res := make([]domain.Product, len(models))
	for i := range models {
		res[i] = *c.ToEntity(&models[i])
	}

	return res
}

// OutboxEventConverter преобразует события outbox между domain и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *domain.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *domain.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*domain.OutboxEvent
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverter() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *domain.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		Attempts:    entity.Attempts,
		LastError:   entity.LastError,
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *domain.OutboxEvent {
	if model == nil {
		return nil
	}

	return &domain.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   domain.ProductEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      domain.OutboxStatus(model.Status),
		Attempts:    model.Attempts,
		LastError:   model.LastError,
		CreatedAt:   model.CreatedAt.UTC(),
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*domain.OutboxEvent {
	res := make([]*domain.OutboxEvent, len(models))
	for i := range models {
		res[i] = c.ToEntity(models[i])
	}

	return res
}
