package hadith

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"

	"github.com/mucahitkurt/rahle/app/common"
)

// turkishFoldCharFilter folds text through the same normalizer the scan
// search uses, so both backends agree on what matches.
type turkishFoldCharFilter struct{}

func (turkishFoldCharFilter) Filter(input []byte) []byte {
	return []byte(common.FoldTurkish(string(input)))
}

func init() {
	registry.RegisterCharFilter("turkish_fold", func(config map[string]interface{}, cache *registry.Cache) (analysis.CharFilter, error) {
		return turkishFoldCharFilter{}, nil
	})
}

func bleveIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := mapping.NewIndexMapping()
	err := indexMapping.AddCustomAnalyzer("turkish_text",
		map[string]any{
			"type":         custom.Name,
			"char_filters": []string{"turkish_fold"},
			"tokenizer":    unicode.Name,
			"token_filters": []string{
				lowercase.Name,
			},
		})
	if err != nil {
		return nil, fmt.Errorf("defining turkish analyzer: %w", err)
	}

	recordMapping := mapping.NewDocumentMapping()
	recordMapping.AddFieldMappingsAt("hadith_number", mapping.NewKeywordFieldMapping())

	textField := mapping.NewTextFieldMapping()
	textField.Analyzer = "turkish_text"
	recordMapping.AddFieldMappingsAt("text", textField)

	recordMapping.AddFieldMappingsAt("page_index", mapping.NewNumericFieldMapping())

	indexMapping.DefaultMapping = recordMapping
	return indexMapping, nil
}

// BleveIndex is the optional tokenized search backend. It indexes only the
// searchable fields; full records are hydrated from the document store by
// primary key after a hit.
type BleveIndex struct {
	idx bleve.Index
}

// OpenBleveIndex opens (creating if absent) the hadith search index under
// dataDir.
func OpenBleveIndex(dataDir string) (*BleveIndex, error) {
	idxPath := filepath.Join(dataDir, "hadiths.bleve")
	_, err := os.Stat(idxPath)
	if errors.Is(err, os.ErrNotExist) {
		m, err := bleveIndexMapping()
		if err != nil {
			return nil, err
		}
		idx, err := bleve.New(idxPath, m)
		if err != nil {
			return nil, fmt.Errorf("creating bleve index: %w", err)
		}
		return &BleveIndex{idx: idx}, nil
	} else if err != nil {
		return nil, fmt.Errorf("checking bleve index: %w", err)
	}
	idx, err := bleve.Open(idxPath)
	if err != nil {
		return nil, fmt.Errorf("opening bleve index: %w", err)
	}
	return &BleveIndex{idx: idx}, nil
}

func (b *BleveIndex) Add(ctx context.Context, records []Record) error {
	batch := b.idx.NewBatch()
	for _, r := range records {
		err := batch.Index(r.HadithNumber, map[string]any{
			"hadith_number": r.HadithNumber,
			"text":          r.Text,
			"page_index":    r.PageIndex,
		})
		if err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

// Search returns the hadith numbers of the best matches, capped like the
// scan search.
func (b *BleveIndex) Search(ctx context.Context, q string) ([]string, error) {
	query := bleve.NewMatchQuery(q)
	query.SetField("text")
	query.Analyzer = "turkish_text"

	request := bleve.NewSearchRequest(query)
	request.Size = SearchResultCap

	result, err := b.idx.Search(request)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	numbers := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		numbers = append(numbers, hit.ID)
	}
	return numbers, nil
}

func (b *BleveIndex) Clear(ctx context.Context) error {
	count, err := b.idx.DocCount()
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	request := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	request.Size = int(count)
	result, err := b.idx.Search(request)
	if err != nil {
		return err
	}
	batch := b.idx.NewBatch()
	for _, hit := range result.Hits {
		batch.Delete(hit.ID)
	}
	return b.idx.Batch(batch)
}

func (b *BleveIndex) Count() (uint64, error) {
	return b.idx.DocCount()
}

func (b *BleveIndex) Close() error {
	return b.idx.Close()
}
