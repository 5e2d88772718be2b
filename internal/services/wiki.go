package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/models"
)

const (
	wikiDefaultURL            = "https://wiki.52poke.com/zh-hant/%E5%AE%9D%E5%8F%AF%E6%A2%A6%E5%88%97%E8%A1%A8%EF%BC%88%E5%9C%A8%E5%85%B6%E4%BB%96%E8%AF%AD%E8%A8%80%E4%B8%AD%EF%BC%89"
	wikiDefaultSpriteTemplate = "https://play.pokemonshowdown.com/sprites/gen5/%s.png"
)

// WikiSchema holds the header labels that identify each column of the name
// table. A column matches when its header text contains the label.
type WikiSchema struct {
	Localized string
	Japanese  string
	English   string
}

// DefaultWikiSchema matches the header of the 52poke "list in other languages" table.
var DefaultWikiSchema = WikiSchema{
	Localized: "中文",
	Japanese:  "日文",
	English:   "英文",
}

// WikiOptions configures a WikiService.
type WikiOptions struct {
	URL               string
	SpriteURLTemplate string
	Schema            WikiSchema
	Timeout           time.Duration
	RPS               float64
	HTTPClient        *http.Client
}

// WikiService scrapes the wiki table of pokemon names in other languages.
type WikiService struct {
	http           *upstream
	url            string
	spriteTemplate string
	schema         WikiSchema
	logger         *zap.SugaredLogger
}

func NewWikiService(opts WikiOptions, logger *zap.SugaredLogger) *WikiService {
	if opts.URL == "" {
		opts.URL = wikiDefaultURL
	}
	if opts.SpriteURLTemplate == "" {
		opts.SpriteURLTemplate = wikiDefaultSpriteTemplate
	}
	if opts.Schema == (WikiSchema{}) {
		opts.Schema = DefaultWikiSchema
	}
	return &WikiService{
		http:           newUpstream("wiki", opts.HTTPClient, opts.Timeout, opts.RPS),
		url:            opts.URL,
		spriteTemplate: opts.SpriteURLTemplate,
		schema:         opts.Schema,
		logger:         logger,
	}
}

// FindRow returns the first table row whose localized name contains name.
func (s *WikiService) FindRow(ctx context.Context, name string) (*models.WikiRow, error) {
	return s.FindRowBy(ctx, models.WikiFieldLocalized, name)
}

// FindRowBy returns the first table row whose field column contains name.
// ErrNotFound is returned when no row matches, ErrSchemaMismatch when the page
// does not carry a table with the expected header.
func (s *WikiService) FindRowBy(ctx context.Context, field models.WikiField, name string) (*models.WikiRow, error) {
	body, err := s.http.get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wiki page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse wiki page: %w", ErrUpstreamUnavailable, err)
	}

	rows, err := s.parseNameTable(doc)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if strings.Contains(row.Field(field), name) {
			s.logger.Debugf("Found pokemon %q in wiki", name)
			return &row, nil
		}
	}

	s.logger.Debugf("Pokemon %q not found in wiki", name)
	return nil, fmt.Errorf("pokemon %q not in wiki: %w", name, ErrNotFound)
}

// ExtractDisplayNameAndImage returns the English name of row and its sprite
// URL. The sprite name is the English name without hyphens, lowercased.
func (s *WikiService) ExtractDisplayNameAndImage(row models.WikiRow) (string, string) {
	engName := strings.TrimRightFunc(row.EnglishName, unicode.IsSpace)
	imageName := strings.ToLower(strings.ReplaceAll(engName, "-", ""))
	imageURL := fmt.Sprintf(s.spriteTemplate, imageName)
	s.logger.Debugf("Pokemon image url is: %s", imageURL)
	return engName, imageURL
}

// wikiColumns maps schema fields to column indices of the expanded table grid.
type wikiColumns struct {
	localized, japanese, english int
}

func (c wikiColumns) width() int {
	return max(c.localized, c.japanese, c.english) + 1
}

// parseNameTable finds the first table whose header carries every schema label
// and returns its data rows.
func (s *WikiService) parseNameTable(doc *goquery.Document) ([]models.WikiRow, error) {
	var (
		rows  []models.WikiRow
		found bool
	)

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		trs := table.Find("tr")

		var headerRows, dataRows []*goquery.Selection
		trs.Each(func(_ int, tr *goquery.Selection) {
			isHeader := tr.ChildrenFiltered("td").Length() == 0 && tr.ChildrenFiltered("th").Length() > 0
			switch {
			case isHeader && len(dataRows) == 0:
				headerRows = append(headerRows, tr)
			case !isHeader:
				dataRows = append(dataRows, tr)
			}
		})
		if len(headerRows) == 0 {
			return true
		}

		cols, ok := s.resolveColumns(expandRows(headerRows))
		if !ok {
			return true
		}

		found = true
		for _, cells := range expandRows(dataRows) {
			if len(cells) < cols.width() {
				continue
			}
			rows = append(rows, models.WikiRow{
				LocalizedName: cells[cols.localized],
				JapaneseName:  cells[cols.japanese],
				EnglishName:   cells[cols.english],
				Cells:         cells,
			})
		}
		return false
	})

	if !found {
		return nil, fmt.Errorf("%w: no table with columns %q, %q and %q",
			ErrSchemaMismatch, s.schema.Localized, s.schema.Japanese, s.schema.English)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: name table has no data rows", ErrSchemaMismatch)
	}
	return rows, nil
}

// resolveColumns locates each schema label in the header grid.
func (s *WikiService) resolveColumns(header [][]string) (wikiColumns, bool) {
	width := 0
	for _, r := range header {
		width = max(width, len(r))
	}

	labels := make([]string, width)
	for i := range labels {
		var parts []string
		for _, r := range header {
			if i < len(r) && r[i] != "" && (len(parts) == 0 || parts[len(parts)-1] != r[i]) {
				parts = append(parts, r[i])
			}
		}
		labels[i] = strings.Join(parts, " ")
	}

	find := func(label string) int {
		for i, l := range labels {
			if strings.Contains(l, label) {
				return i
			}
		}
		return -1
	}

	cols := wikiColumns{
		localized: find(s.schema.Localized),
		japanese:  find(s.schema.Japanese),
		english:   find(s.schema.English),
	}
	if cols.localized < 0 || cols.japanese < 0 || cols.english < 0 {
		return wikiColumns{}, false
	}
	return cols, true
}

type spanCell struct {
	text string
	rows int
}

// expandRows flattens table rows into a text grid, repeating cells across
// their colspan and carrying them down their rowspan.
func expandRows(rows []*goquery.Selection) [][]string {
	pending := map[int]spanCell{}
	grid := make([][]string, 0, len(rows))

	for _, tr := range rows {
		cells := tr.ChildrenFiltered("th, td")
		var out []string
		next := 0

		for col := 0; ; col++ {
			if p, ok := pending[col]; ok {
				out = append(out, p.text)
				if p.rows--; p.rows == 0 {
					delete(pending, col)
				} else {
					pending[col] = p
				}
				continue
			}
			if next >= cells.Length() {
				if !pendingAfter(pending, col) {
					break
				}
				out = append(out, "")
				continue
			}

			cell := cells.Eq(next)
			next++
			text := strings.TrimSpace(cell.Text())
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")
			for k := 0; k < colspan; k++ {
				out = append(out, text)
				if rowspan > 1 {
					pending[col+k] = spanCell{text: text, rows: rowspan - 1}
				}
			}
			col += colspan - 1
		}
		grid = append(grid, out)
	}
	return grid
}

func pendingAfter(pending map[int]spanCell, col int) bool {
	for c := range pending {
		if c > col {
			return true
		}
	}
	return false
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
