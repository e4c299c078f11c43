package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"buildkit-store/internal/domain"
)

type Kind string

const (
	KindProducts   Kind = "products"
	KindCategories Kind = "categories"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryStore interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// DetectKind sniffs the header row to decide whether a CSV file holds
// products or categories.
func DetectKind(r io.Reader) (Kind, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	headers, err := csvr.Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["price_cents"]; ok {
		return KindProducts, nil
	}
	if _, ok := index["display_order"]; ok {
		return KindCategories, nil
	}
	if _, ok := index["service_type"]; ok {
		return KindCategories, nil
	}
	return "", fmt.Errorf("unrecognised CSV headers: %v", headers)
}

// CSVImporter reads catalogue CSV exports and inserts/updates products
// or categories depending on the file's headers.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryStore

	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryStore) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		categoryIDs: map[string]string{},
	}
}

// Run parses CSV rows and upserts them. Returns the number of rows imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	if _, ok := index["price_cents"]; ok {
		return i.runProducts(ctx, index)
	}
	return i.runCategories(ctx, index)
}

func (i *CSVImporter) runProducts(ctx context.Context, index map[string]int) (int, error) {
	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		slug := pick(record, index, "slug")
		name := pick(record, index, "name")
		categorySlug := pick(record, index, "category")
		cents := pickInt64(record, index, "price_cents")
		if slug == "" || name == "" || categorySlug == "" || cents <= 0 {
			return imported, fmt.Errorf("invalid product row (missing required fields) for slug %q", slug)
		}

		categoryID, err := i.resolveCategory(ctx, categorySlug)
		if err != nil {
			return imported, fmt.Errorf("resolve category %q: %w", categorySlug, err)
		}

		currency := pick(record, index, "currency")
		if currency == "" {
			currency = "GHS"
		}

		p := domain.Product{
			CategoryID:  categoryID,
			Name:        name,
			Slug:        slug,
			Description: pick(record, index, "description"),
			PriceCents:  cents,
			Currency:    currency,
			ProductType: pick(record, index, "product_type"),
			Stock:       int(pickInt64(record, index, "stock")),
			Available:   pickBool(record, index, "available", true),
			Featured:    pickBool(record, index, "featured", false),
		}
		if _, err := i.products.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", slug, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) runCategories(ctx context.Context, index map[string]int) (int, error) {
	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		name := pick(record, index, "name")
		slug := pick(record, index, "slug")
		if slug == "" {
			slug = slugify(name)
		}
		if name == "" || slug == "" {
			return imported, fmt.Errorf("invalid category row (missing name) at row %d", imported+1)
		}

		c := domain.Category{
			Name:         name,
			Slug:         slug,
			ServiceType:  pick(record, index, "service_type"),
			Description:  pick(record, index, "description"),
			DisplayOrder: int(pickInt64(record, index, "display_order")),
			Featured:     pickBool(record, index, "featured", false),
		}
		created, err := i.categories.Upsert(ctx, c)
		if err != nil {
			return imported, fmt.Errorf("upsert category %q: %w", slug, err)
		}
		i.categoryIDs[slug] = created.ID
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) resolveCategory(ctx context.Context, slug string) (string, error) {
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	c, err := i.categories.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	i.categoryIDs[slug] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func pickInt64(record []string, index map[string]int, key string) int64 {
	v := pick(record, index, key)
	if v == "" {
		return 0
	}
	n, _ := strconv.ParseInt(v, 10, 64)
	return n
}

func pickBool(record []string, index map[string]int, key string, def bool) bool {
	v := pick(record, index, key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func slugify(name string) string {
	out := strings.ToLower(strings.TrimSpace(name))
	out = strings.Join(strings.Fields(out), "-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return -1
		}
	}, out)
}
