package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wooyangcrm/catalog-migrate/config"
	"github.com/wooyangcrm/catalog-migrate/models"
	"github.com/wooyangcrm/catalog-migrate/supabase"
	"github.com/wooyangcrm/catalog-migrate/utils"
)

// Store is the slice of the tabular store the catalog builder needs. It is
// satisfied by *supabase.Client; tests inject fakes.
type Store interface {
	FetchAll(ctx context.Context, table string, q supabase.ListQuery) ([]json.RawMessage, error)
	Insert(ctx context.Context, table string, records any, returning bool) ([]json.RawMessage, error)
	UpdateWhere(ctx context.Context, table string, filter url.Values, patch any) error
}

const (
	// DefaultBatchSize is the product insert batch size.
	DefaultBatchSize = 50
	// linkChunkSize bounds the id list of a single back-link PATCH.
	linkChunkSize = 100
	// aliasBatchSize is the alias insert batch size.
	aliasBatchSize = 50
)

// Summary carries the operator-facing counters of a catalog run. Created
// counts lower than group counts mean some records were lost to write
// failures; operators diff them to detect loss.
type Summary struct {
	ItemsLoaded     int
	DocumentsLoaded int
	Groups          int
	Skipped         int
	ProductsCreated int
	ItemsLinked     int
	LinkErrors      int
	AliasesCreated  int
}

// Result is the full outcome of a catalog run, kept in memory for reports.
type Result struct {
	Summary
	Candidates []*Candidate
	// ProductIDs maps grouping key to the id the store assigned.
	ProductIDs map[string]string
}

// Builder runs the catalog pipeline: fetch line items, group them into
// canonical products, insert the products, back-link the items and derive
// per-company aliases. Stages run strictly in sequence; later stages read
// maps built by earlier ones.
type Builder struct {
	store     Store
	logger    *logrus.Logger
	BatchSize int
	DryRun    bool
	// Pace throttles writes: sleep this long after every 10 product
	// batches, 50 linked products, and each alias batch.
	Pace time.Duration
}

func NewBuilder(store Store, logger *logrus.Logger) *Builder {
	return &Builder{
		store:     store,
		logger:    logger,
		BatchSize: DefaultBatchSize,
		Pace:      300 * time.Millisecond,
	}
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	fmt.Println("STEP 1: loading document_items")
	items := b.fetchItems(ctx)
	fmt.Printf("  loaded: %d items\n", len(items))

	docMap := b.fetchDocuments(ctx)
	fmt.Printf("  loaded: %d documents\n", len(docMap))

	fmt.Println("STEP 2: grouping item names")
	groups, skipped := GroupItems(items)
	covered := 0
	for _, g := range groups {
		covered += len(g.Items)
	}
	fmt.Printf("  groups: %d, covered items: %d, skipped: %d\n", len(groups), covered, skipped)

	fmt.Println("STEP 3: building product candidates")
	candidates := BuildCandidates(groups)
	for i, c := range candidates {
		if i >= 10 {
			break
		}
		fmt.Printf("    %s: %s (%d items, %d specs)\n", c.InternalCode, c.InternalName, len(c.ItemIDs), c.SpecCount)
	}

	res := &Result{
		Summary: Summary{
			ItemsLoaded:     len(items),
			DocumentsLoaded: len(docMap),
			Groups:          len(groups),
			Skipped:         skipped,
		},
		Candidates: candidates,
		ProductIDs: map[string]string{},
	}

	if b.DryRun {
		fmt.Println("dry-run: skipping product insert, item linking and aliases")
		return res, nil
	}

	fmt.Println("STEP 4: inserting products")
	b.insertProducts(ctx, res)
	fmt.Printf("  products created: %d (mapped ids: %d)\n", res.ProductsCreated, len(res.ProductIDs))

	fmt.Println("STEP 5: linking document_items")
	b.linkItems(ctx, res)
	fmt.Printf("  items linked: %d\n", res.ItemsLinked)

	fmt.Println("STEP 6: creating company_product_aliases")
	b.createAliases(ctx, res, docMap)
	fmt.Printf("  aliases created: %d\n", res.AliasesCreated)

	return res, nil
}

func (b *Builder) fetchItems(ctx context.Context) []*models.DocumentItem {
	rows, err := b.store.FetchAll(ctx, "document_items", supabase.ListQuery{
		Select: "id,document_id,name,spec,quantity,unit,unit_price",
		Filter: url.Values{"name": {"neq."}},
	})
	if err != nil {
		// Partial data is still worth migrating; the summary undercount
		// surfaces the gap.
		config.LogError(b.logger, "catalog", "fetchItems", "document_items fetch incomplete", len(rows), err)
	}
	items := make([]*models.DocumentItem, 0, len(rows))
	for _, raw := range rows {
		var item models.DocumentItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		items = append(items, &item)
	}
	return items
}

func (b *Builder) fetchDocuments(ctx context.Context) map[string]*models.Document {
	rows, err := b.store.FetchAll(ctx, "documents", supabase.ListQuery{
		Select: "id,company_id,type",
	})
	if err != nil {
		config.LogError(b.logger, "catalog", "fetchDocuments", "documents fetch incomplete", len(rows), err)
	}
	docMap := make(map[string]*models.Document, len(rows))
	for _, raw := range rows {
		var doc models.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docMap[doc.ID] = &doc
	}
	return docMap
}

// insertProducts writes candidates in batches, falling back to one-at-a-time
// creation when a batch fails so one bad record cannot lose the whole batch.
func (b *Builder) insertProducts(ctx context.Context, res *Result) {
	candidates := res.Candidates
	for start := 0; start < len(candidates); start += b.BatchSize {
		end := start + b.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		records := make([]models.NewProduct, 0, len(batch))
		for _, c := range batch {
			records = append(records, models.NewProduct{
				InternalCode: c.InternalCode,
				InternalName: c.InternalName,
				Type:         "finished",
				Unit:         c.Unit,
				CurrentStock: 0,
				IsActive:     true,
			})
		}

		created, err := b.store.Insert(ctx, "products", records, true)
		if err != nil {
			config.LogError(b.logger, "catalog", "insertProducts", "batch insert failed, retrying per row", start/b.BatchSize+1, err)
			for i, rec := range records {
				single, err := b.store.Insert(ctx, "products", rec, true)
				if err != nil || len(single) == 0 {
					continue
				}
				if id := createdID(single[0]); id != "" {
					res.ProductIDs[batch[i].Key] = id
					res.ProductsCreated++
				}
			}
		} else {
			for i, raw := range created {
				if i >= len(batch) {
					break
				}
				if id := createdID(raw); id != "" {
					res.ProductIDs[batch[i].Key] = id
					res.ProductsCreated++
				}
			}
		}

		if end%500 == 0 || end == len(candidates) {
			fmt.Printf("  ... %d/%d processed (%d created)\n", end, len(candidates), res.ProductsCreated)
		}
		utils.SleepEvery(start/b.BatchSize, 10, b.Pace)
	}
}

func createdID(raw json.RawMessage) string {
	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	return p.ID
}

// linkItems stamps product id and chosen display name onto every
// contributing item, chunked so a single PATCH never carries an unbounded
// id list. Failed chunks are logged and skipped: linking is a best-effort
// annotation over an already-durable catalog.
func (b *Builder) linkItems(ctx context.Context, res *Result) {
	for idx, c := range res.Candidates {
		productID, ok := res.ProductIDs[c.Key]
		if !ok {
			continue
		}

		for start := 0; start < len(c.ItemIDs); start += linkChunkSize {
			end := start + linkChunkSize
			if end > len(c.ItemIDs) {
				end = len(c.ItemIDs)
			}
			chunk := c.ItemIDs[start:end]

			filter := url.Values{"id": {"in.(" + strings.Join(chunk, ",") + ")"}}
			patch := models.DocumentItemLink{
				ProductID:    productID,
				InternalName: c.InternalName,
			}
			if err := b.store.UpdateWhere(ctx, "document_items", filter, patch); err != nil {
				config.LogError(b.logger, "catalog", "linkItems", c.InternalCode, len(chunk), err)
				res.LinkErrors++
				continue
			}
			res.ItemsLinked += len(chunk)
		}

		if (idx+1)%500 == 0 || idx+1 == len(res.Candidates) {
			fmt.Printf("  ... %d/%d products processed (%d items linked)\n", idx+1, len(res.Candidates), res.ItemsLinked)
		}
		utils.SleepEvery(idx, 50, b.Pace)
	}
}

type nameSpec struct {
	name string
	spec string
}

// createAliases records, per (company, product), the single most frequent
// (display name, spec) pair that company used for the product.
func (b *Builder) createAliases(ctx context.Context, res *Result, docMap map[string]*models.Document) {
	var batch []models.CompanyProductAlias
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if _, err := b.store.Insert(ctx, "company_product_aliases", batch, false); err != nil {
			config.LogError(b.logger, "catalog", "createAliases", "alias batch failed", len(batch), err)
		} else {
			res.AliasesCreated += len(batch)
		}
		batch = nil
	}

	for _, c := range res.Candidates {
		productID, ok := res.ProductIDs[c.Key]
		if !ok {
			continue
		}

		perCompany := map[string]*freqCounter[nameSpec]{}
		var companyOrder []string
		for _, item := range c.Items {
			doc := docMap[item.DocumentID]
			if doc == nil || doc.CompanyID == "" {
				continue
			}
			counter, ok := perCompany[doc.CompanyID]
			if !ok {
				counter = newFreqCounter[nameSpec]()
				perCompany[doc.CompanyID] = counter
				companyOrder = append(companyOrder, doc.CompanyID)
			}
			counter.Add(nameSpec{
				name: CleanName(item.Name),
				spec: strings.TrimSpace(item.Spec),
			})
		}

		for _, companyID := range companyOrder {
			top, useCount := perCompany[companyID].Top()
			var extSpec *string
			if top.spec != "" {
				s := top.spec
				extSpec = &s
			}
			batch = append(batch, models.CompanyProductAlias{
				CompanyID:    companyID,
				ProductID:    productID,
				AliasType:    models.AliasTypePurchase,
				ExternalName: top.name,
				ExternalSpec: extSpec,
				IsDefault:    true,
				UseCount:     useCount,
			})
			if len(batch) >= aliasBatchSize {
				flush()
				if res.AliasesCreated > 0 && res.AliasesCreated%1000 == 0 {
					fmt.Printf("  ... %d aliases created\n", res.AliasesCreated)
				}
				time.Sleep(b.Pace)
			}
		}
	}
	flush()
}
