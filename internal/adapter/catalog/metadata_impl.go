package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/entity"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/pkg/metrics"
	"github.com/user/dataset-explorer/pkg/utils"
)

const (
	primaryDescriptionSelector  = ".cat_description"
	fallbackDescriptionSelector = ".ods-dataset-metadata-block__description p"
	schemaAttribute             = "ctx-dataset-schema"
)

// MetadataRepoImpl implements repository.MetadataRepository by scraping the
// dataset information page of the catalog portal.
type MetadataRepoImpl struct {
	pages      repository.PageFetcher
	portalBase string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewMetadataRepo(pages repository.PageFetcher, portalBase string, m *metrics.Metrics, l *zap.Logger) *MetadataRepoImpl {
	return &MetadataRepoImpl{pages: pages, portalBase: portalBase, metrics: m, logger: l}
}

// FetchMetadata never fails; unreachable pages yield entity.UnavailableMetadata.
func (r *MetadataRepoImpl) FetchMetadata(ctx context.Context, datasetID string) entity.DatasetMetadata {
	start := time.Now()
	meta, err := r.fetch(ctx, datasetID)
	r.metrics.ObserveFetch("metadata", repository.OutcomeLabel(err), time.Since(start).Seconds())
	if err != nil {
		r.logger.Warn("metadata fetch failed", zap.String("dataset", datasetID), zap.Error(err))
		return entity.UnavailableMetadata()
	}
	return meta
}

func (r *MetadataRepoImpl) fetch(ctx context.Context, datasetID string) (entity.DatasetMetadata, error) {
	if err := utils.ValidateDatasetID(datasetID); err != nil {
		return entity.DatasetMetadata{}, fmt.Errorf("%w: %w", repository.ErrTransport, err)
	}
	pageURL, err := utils.JoinURL(r.portalBase, "explore", "dataset", datasetID, "information/")
	if err != nil {
		return entity.DatasetMetadata{}, fmt.Errorf("%w: %w", repository.ErrTransport, err)
	}

	page, err := r.pages.FetchPage(ctx, pageURL)
	if err != nil {
		return entity.DatasetMetadata{}, err
	}

	return ExtractMetadata(bytes.NewReader(page), r.logger.With(zap.String("dataset", datasetID)))
}

// ExtractMetadata reads the description and the embedded schema fields from an
// information page. Only an unreadable document is an error; every missing piece
// degrades to entity.NotAvailable on its own.
func ExtractMetadata(page io.Reader, logger *zap.Logger) (entity.DatasetMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return entity.DatasetMetadata{}, fmt.Errorf("%w: %w", repository.ErrMalformedPayload, err)
	}

	meta := entity.UnavailableMetadata()
	meta.Description = extractDescription(doc)

	holder := doc.Find("[" + schemaAttribute + "]").First()
	raw, ok := holder.Attr(schemaAttribute)
	if !ok {
		logger.Info("no embedded dataset schema on page")
		return meta, nil
	}

	schema := unescapeSchema(raw)
	logger.Debug("embedded dataset schema", zap.String("schema", string(truncate([]byte(schema), rawLogLimit))))

	fields := parseSchemaFields(schema)
	if fields.LastModified == entity.NotAvailable && modifiedPattern.MatchString(schema) {
		logger.Warn("unparseable modified timestamp in dataset schema")
	}
	meta.LastModified = fields.LastModified
	meta.RecordCount = fields.RecordCount
	meta.Theme = fields.Theme
	return meta, nil
}

func extractDescription(doc *goquery.Document) string {
	if text := joinedText(doc.Find(primaryDescriptionSelector).First()); text != "" {
		return text
	}
	if text := strings.TrimSpace(doc.Find(fallbackDescriptionSelector).First().Text()); text != "" {
		return text
	}
	return entity.NotAvailable
}

// joinedText trims every text node under sel and joins the non-empty ones with newlines.
func joinedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			switch goquery.NodeName(child) {
			case "#text":
				if t := strings.TrimSpace(child.Text()); t != "" {
					parts = append(parts, t)
				}
			case "#comment", "script", "style":
			default:
				walk(child)
			}
		})
	}
	walk(sel)
	return strings.Join(parts, "\n")
}
