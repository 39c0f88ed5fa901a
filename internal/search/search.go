// Package search provides product search: Elasticsearch with fuzzy
// matching when configured, plain SQL matching otherwise. The index is
// maintained best-effort from the admin catalog handlers.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"flowershop-bot/internal/config"
	"flowershop-bot/internal/models"
)

const Index = "product"

// NewClient connects to Elasticsearch and verifies the cluster responds.
// Returns (nil, nil) when no ES_URL is configured.
func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	if cfg.ES_URL == "" {
		return nil, nil
	}
	log.Printf("Connecting to Elasticsearch at: %s", cfg.ES_URL)

	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

type Service struct {
	DB *gorm.DB
	ES *elasticsearch.Client
}

// IndexProduct upserts one product document. Best-effort: callers log and
// move on.
func (s *Service) IndexProduct(ctx context.Context, p models.Product) error {
	if s.ES == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("search: marshal product: %w", err)
	}
	res, err := s.ES.Index(
		Index,
		bytes.NewReader(data),
		s.ES.Index.WithContext(ctx),
		s.ES.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("search: index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index product %d: %s", p.ID, res.Status())
	}
	return nil
}

// RemoveProduct drops one product document.
func (s *Service) RemoveProduct(ctx context.Context, id uint) error {
	if s.ES == nil {
		return nil
	}

	res, err := s.ES.Delete(
		Index,
		strconv.FormatUint(uint64(id), 10),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete product %d: %s", id, res.Status())
	}
	return nil
}

// Search matches products by name and description. Elasticsearch when
// available, LIKE fallback against the store otherwise.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if s.ES == nil {
		return s.searchSQL(ctx, query, limit)
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return prods, nil
}

func (s *Service) searchSQL(ctx context.Context, query string, limit int) ([]models.Product, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	var items []models.Product
	err := s.DB.WithContext(ctx).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return items, nil
}
