package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
	"github.com/ecomstack/storefront-api/pkg/helpers"
)

var ErrProductNotFound = errors.New("product not found")

const productCacheTTL = 5 * time.Minute

// CatalogService serves the read-only product surface: details by slug
// (redis-cached), related products, and full-text search backed by
// Elasticsearch with a Postgres fallback.
type CatalogService struct {
	Products repo.ProductRepository
	Redis    *redis.Client
	ES       *elasticsearch.Client
	ESIndex  string
	Logger   *logrus.Logger
}

func NewCatalogService(products repo.ProductRepository, rdb *redis.Client, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Products: products, Redis: rdb, ES: es, ESIndex: esIndex, Logger: logger}
}

func productKey(slug string) string { return "product:slug:" + slug }

func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	if s.Redis != nil {
		var cached entity.Product
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, productKey(slug), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	p, err := s.Products.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, productKey(slug), p, productCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("slug", slug).Warn("product cache write failed")
		}
	}
	return p, nil
}

func (s *CatalogService) Related(ctx context.Context, productID, categoryID string) ([]entity.Product, error) {
	out, err := s.Products.GetRelated(ctx, productID, categoryID, 3)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Product{}
	}
	return out, nil
}

// Search queries Elasticsearch; when ES is unavailable or errors it falls
// back to a Postgres ILIKE scan so the endpoint stays up.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]entity.Product, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	if s.ES == nil || s.ESIndex == "" {
		return s.searchFallback(ctx, q, size)
	}

	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to postgres")
		}
		return s.searchFallback(ctx, q, size)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if s.Logger != nil {
			s.Logger.WithField("status", res.Status()).Warn("es search response error, falling back to postgres")
		}
		return s.searchFallback(ctx, q, size)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source entity.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Product, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		p := h.Source
		if p.ID == "" {
			p.ID = h.ID
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *CatalogService) searchFallback(ctx context.Context, q string, size int) ([]entity.Product, error) {
	out, err := s.Products.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Product{}
	}
	return out, nil
}

// Reindex pushes the whole catalog into Elasticsearch. Called from main on
// startup; failures are logged and non-fatal.
func (s *CatalogService) Reindex(ctx context.Context) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	products, err := s.Products.List(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if err := s.indexProduct(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) indexProduct(ctx context.Context, p *entity.Product) error {
	b, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: p.ID,
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
	return nil
}
