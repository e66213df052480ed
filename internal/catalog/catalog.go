// Package catalog provides the immutable, queryable index of task records.
//
// A Catalog is built once from a static set of records and is read-only
// afterwards, so one instance may be shared by any number of engines and
// goroutines without synchronization.
//
// Import rules:
//   - CAN import: internal/domain, internal/errors, std lib
//   - MUST NOT import: internal/selector, internal/cli
package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrz1836/taskcycle/internal/domain"
	tcerrors "github.com/mrz1836/taskcycle/internal/errors"
)

// recordValidate validates TaskRecord struct tags.
//
//nolint:gochecknoglobals // validator instances cache struct metadata and are safe for concurrent use
var recordValidate = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Category names appear in labels as "Category:Key", so they must not
	// contain the separator or whitespace.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return strings.TrimSpace(name) == name && !strings.ContainsAny(name, ": \t\n")
	})
	return v
}

type axisTarget struct {
	axis     domain.AxisID
	position domain.Position
}

type categoryTarget struct {
	category string
	position domain.Position
}

// Catalog indexes task records by category, by (category, target position)
// and by (axis, target position).
type Catalog struct {
	records      []domain.TaskRecord
	byCategory   map[string][]domain.TaskRecord
	byTarget     map[categoryTarget][]domain.TaskRecord
	byAxisTarget map[axisTarget][]domain.TaskRecord
	axes         map[string][]domain.AxisID
	maxTarget    map[domain.AxisID]int
	categories   []string
}

// Option configures catalog construction.
type Option func(*options)

type options struct {
	required []string
}

// WithRequiredCategories makes construction fail with ErrUnknownCategory
// unless each named category has at least one record.
func WithRequiredCategories(categories ...string) Option {
	return func(o *options) {
		o.required = append(o.required, categories...)
	}
}

// New validates records and builds the catalog indexes.
//
// Validation rules:
//   - every record passes its struct tags (positive id, category, instruction,
//     target position >= 1 when present)
//   - ids are unique
//   - a record with an axis key also carries a target position
//   - every required category has at least one record
func New(records []domain.TaskRecord, opts ...Option) (*Catalog, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		records:      make([]domain.TaskRecord, 0, len(records)),
		byCategory:   make(map[string][]domain.TaskRecord),
		byTarget:     make(map[categoryTarget][]domain.TaskRecord),
		byAxisTarget: make(map[axisTarget][]domain.TaskRecord),
		axes:         make(map[string][]domain.AxisID),
		maxTarget:    make(map[domain.AxisID]int),
	}

	ids := make(map[int]struct{}, len(records))
	for i, rec := range records {
		if err := validateRecord(rec); err != nil {
			return nil, tcerrors.Wrapf(err, "record %d (id %d)", i, rec.ID)
		}
		if _, dup := ids[rec.ID]; dup {
			return nil, tcerrors.Wrapf(tcerrors.ErrDuplicateTaskID, "id %d", rec.ID)
		}
		ids[rec.ID] = struct{}{}
		c.add(cloneRecord(rec))
	}

	c.categories = make([]string, 0, len(c.byCategory))
	for category := range c.byCategory {
		c.categories = append(c.categories, category)
	}
	sort.Strings(c.categories)
	for category := range c.axes {
		sort.Slice(c.axes[category], func(i, j int) bool {
			return c.axes[category][i].Key < c.axes[category][j].Key
		})
	}

	for _, category := range o.required {
		if _, ok := c.byCategory[category]; !ok {
			return nil, tcerrors.Wrapf(tcerrors.ErrUnknownCategory, "category %q has no records", category)
		}
	}

	return c, nil
}

func validateRecord(rec domain.TaskRecord) error {
	if err := recordValidate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %s", tcerrors.ErrInvalidRecord, err.Error())
	}
	if rec.AxisKey != "" && rec.TargetPosition == nil {
		return fmt.Errorf("%w: axis_key %q requires a target_position", tcerrors.ErrInvalidRecord, rec.AxisKey)
	}
	return nil
}

func (c *Catalog) add(rec domain.TaskRecord) {
	c.records = append(c.records, rec)
	c.byCategory[rec.Category] = append(c.byCategory[rec.Category], rec)

	if !rec.HasTarget() {
		return
	}

	axis := rec.Axis()
	pos := rec.Target()
	c.byTarget[categoryTarget{category: rec.Category, position: pos}] =
		append(c.byTarget[categoryTarget{category: rec.Category, position: pos}], rec)
	c.byAxisTarget[axisTarget{axis: axis, position: pos}] =
		append(c.byAxisTarget[axisTarget{axis: axis, position: pos}], rec)

	if _, known := c.maxTarget[axis]; !known {
		c.axes[rec.Category] = append(c.axes[rec.Category], axis)
	}
	if int(pos) > c.maxTarget[axis] {
		c.maxTarget[axis] = int(pos)
	}
}

// ByCategory returns all records in category, in catalog order.
// Returns ErrUnknownCategory when the category has no records.
func (c *Catalog) ByCategory(category string) ([]domain.TaskRecord, error) {
	recs, ok := c.byCategory[category]
	if !ok {
		return nil, tcerrors.Wrapf(tcerrors.ErrUnknownCategory, "category %q", category)
	}
	return cloneRecords(recs), nil
}

// ByTarget returns the records in category whose target position equals
// position, across all of the category's axes. An empty result is not an
// error; the caller decides the fallback policy.
func (c *Catalog) ByTarget(category string, position domain.Position) []domain.TaskRecord {
	return cloneRecords(c.byTarget[categoryTarget{category: category, position: position}])
}

// ByAxisTarget returns the records on axis whose target position equals position.
// An empty result is not an error.
func (c *Catalog) ByAxisTarget(axis domain.AxisID, position domain.Position) []domain.TaskRecord {
	return cloneRecords(c.byAxisTarget[axisTarget{axis: axis.Normalized(), position: position}])
}

// Has reports whether category has at least one record.
func (c *Catalog) Has(category string) bool {
	_, ok := c.byCategory[category]
	return ok
}

// Categories returns the category names in sorted order.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// Axes returns the axes discovered in category from records carrying a
// target position, sorted by axis key. A category without targeted records
// has no axes.
func (c *Catalog) Axes(category string) []domain.AxisID {
	return slices.Clone(c.axes[category])
}

// MaxTarget returns the highest target position recorded on axis, or 0.
func (c *Catalog) MaxTarget(axis domain.AxisID) int {
	return c.maxTarget[axis.Normalized()]
}

// Records returns every record in catalog order.
func (c *Catalog) Records() []domain.TaskRecord {
	return cloneRecords(c.records)
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

func cloneRecord(rec domain.TaskRecord) domain.TaskRecord {
	if rec.TargetPosition != nil {
		rec.TargetPosition = domain.Target(*rec.TargetPosition)
	}
	return rec
}

// cloneRecords copies the slice. Records share their TargetPosition pointer
// with the catalog, which never writes through it.
func cloneRecords(recs []domain.TaskRecord) []domain.TaskRecord {
	if len(recs) == 0 {
		return nil
	}
	return slices.Clone(recs)
}
