package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type productClient struct {
	base            baseClient
	defaultCurrency currency.Unit
}

// NewProduct returns a client for the product service. Prices without
// a currency are read in defaultCurrency.
func NewProduct(baseURL string, defaultCurrency currency.Unit, opts Options) (port.ProductClient, error) {
	base, err := newBaseClient(baseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("newBaseClient: %w", err)
	}

	if defaultCurrency == (currency.Unit{}) {
		return nil, errors.New("defaultCurrency is empty")
	}

	return &productClient{
		base:            base,
		defaultCurrency: defaultCurrency,
	}, nil
}

type productDTO struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
}

func (c *productClient) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var dto productDTO

	path := "/products/" + strconv.FormatInt(productID, 10)

	err := c.base.doJSON(ctx, http.MethodGet, path, BearerToken(ctx), nil, &dto)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return domain.Product{}, fmt.Errorf("productID[%d]: %w", productID, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("doJSON: %w", err)
	}

	product, err := mapProductDTOToDomain(dto, c.defaultCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductDTOToDomain: %w", err)
	}

	return product, nil
}

func mapProductDTOToDomain(dto productDTO, defaultCurrency currency.Unit) (domain.Product, error) {
	unit := defaultCurrency
	if dto.Currency != "" {
		parsed, err := currency.ParseISO(dto.Currency)
		if err != nil {
			return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", dto.Currency, err)
		}
		unit = parsed
	}

	return domain.Product{
		ID:    dto.ID,
		Name:  dto.Name,
		Price: domain.NewMoney(dto.Price, unit),
	}, nil
}

func mapProductDomainToDTO(p domain.Product) productDTO {
	return productDTO{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.Amount,
		Currency: p.Price.Currency.String(),
	}
}
