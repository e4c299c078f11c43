package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"buildkit-store/internal/domain"
	categoryrepo "buildkit-store/internal/repository/category"
	productrepo "buildkit-store/internal/repository/product"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categorySeed struct {
	Name         string
	Slug         string
	ServiceType  string
	Description  string
	DisplayOrder int
	Featured     bool
}

type productSeed struct {
	CategorySlug string
	Name         string
	Slug         string
	Description  string
	PriceCents   int64
	ProductType  string
	Stock        int
	Featured     bool
}

// Apply inserts basic catalogue data for manual testing. It is idempotent
// via the repositories' slug upserts.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	quiet := log.New(io.Discard, "", 0)
	categories := categoryrepo.NewPostgres(pool)
	products := productrepo.NewPostgres(pool, quiet)

	categorySeeds := []categorySeed{
		{
			Name:         "Building Materials",
			Slug:         "building-materials",
			ServiceType:  "building-materials",
			Description:  "Cement, blocks, iron rods and other structural supplies",
			DisplayOrder: 1,
			Featured:     true,
		},
		{
			Name:         "Construction Tools",
			Slug:         "construction-tools",
			ServiceType:  "construction-tools",
			Description:  "Power tools and hand tools for site work",
			DisplayOrder: 2,
			Featured:     true,
		},
		{
			Name:         "Plumbing Supplies",
			Slug:         "plumbing-supplies",
			ServiceType:  "plumbing-supplies",
			Description:  "Pipes, fittings and fixtures",
			DisplayOrder: 3,
		},
		{
			Name:         "Electrical Supplies",
			Slug:         "electrical-supplies",
			ServiceType:  "electrical-supplies",
			Description:  "Cables, sockets and distribution boards",
			DisplayOrder: 4,
		},
		{
			Name:         "Roofing Materials",
			Slug:         "roofing-materials",
			ServiceType:  "roofing-materials",
			Description:  "Roofing sheets and accessories",
			DisplayOrder: 5,
		},
		{
			Name:         "Finishing Materials",
			Slug:         "finishing-materials",
			ServiceType:  "finishing-materials",
			Description:  "Paints, tiles and finishing touches",
			DisplayOrder: 6,
		},
	}

	categoryIDs := make(map[string]string, len(categorySeeds))
	for _, c := range categorySeeds {
		created, err := categories.Upsert(ctx, domain.Category{
			Name:         c.Name,
			Slug:         c.Slug,
			ServiceType:  c.ServiceType,
			Description:  c.Description,
			DisplayOrder: c.DisplayOrder,
			Featured:     c.Featured,
		})
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = created.ID
	}

	productSeeds := []productSeed{
		{
			CategorySlug: "building-materials",
			Name:         "Portland Cement 50kg",
			Slug:         "portland-cement-50kg",
			Description:  "General purpose 42.5R cement",
			PriceCents:   11500,
			ProductType:  "material",
			Stock:        400,
			Featured:     true,
		},
		{
			CategorySlug: "building-materials",
			Name:         "Iron Rod 12mm",
			Slug:         "iron-rod-12mm",
			Description:  "High tensile reinforcement bar, 12m length",
			PriceCents:   9800,
			ProductType:  "material",
			Stock:        250,
		},
		{
			CategorySlug: "construction-tools",
			Name:         "Angle Grinder 900W",
			Slug:         "angle-grinder-900w",
			Description:  "115mm disc angle grinder",
			PriceCents:   42000,
			ProductType:  "tool",
			Stock:        35,
			Featured:     true,
		},
		{
			CategorySlug: "plumbing-supplies",
			Name:         "PVC Pipe 4 Inch",
			Slug:         "pvc-pipe-4-inch",
			Description:  "Pressure pipe, 6m length",
			PriceCents:   8500,
			ProductType:  "plumbing",
			Stock:        120,
		},
		{
			CategorySlug: "electrical-supplies",
			Name:         "Armoured Cable 2.5mm",
			Slug:         "armoured-cable-2-5mm",
			Description:  "Per 50m roll",
			PriceCents:   65000,
			ProductType:  "electrical",
			Stock:        40,
		},
		{
			CategorySlug: "roofing-materials",
			Name:         "Aluzinc Roofing Sheet",
			Slug:         "aluzinc-roofing-sheet",
			Description:  "0.4mm corrugated sheet",
			PriceCents:   14500,
			ProductType:  "roofing",
			Stock:        180,
		},
		{
			CategorySlug: "finishing-materials",
			Name:         "Emulsion Paint 20L",
			Slug:         "emulsion-paint-20l",
			Description:  "Interior white emulsion",
			PriceCents:   38000,
			ProductType:  "finishing",
			Stock:        60,
		},
	}

	for _, p := range productSeeds {
		categoryID, ok := categoryIDs[p.CategorySlug]
		if !ok {
			return fmt.Errorf("product %s references unknown category %s", p.Slug, p.CategorySlug)
		}
		_, err := products.Upsert(ctx, domain.Product{
			CategoryID:  categoryID,
			Name:        p.Name,
			Slug:        p.Slug,
			Description: p.Description,
			PriceCents:  p.PriceCents,
			Currency:    "GHS",
			ProductType: p.ProductType,
			Stock:       p.Stock,
			Available:   true,
			Featured:    p.Featured,
		})
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}
