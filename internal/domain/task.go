// Package domain provides shared domain types for the taskcycle sequencing engine.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

// TaskRecord is one human-readable task in the catalog.
//
// TargetPosition is set only for axis-linked categories and is always
// structured data; it is never recovered from the instruction text.
// AxisKey splits one category into independently cycling sub-axes.
//
// Example YAML representation:
//
//	- id: 14
//	  category: MoveSlider
//	  axis_key: top
//	  target_position: 2
//	  instruction: Move the top slider to position 2.
type TaskRecord struct {
	// ID is the stable, unique identifier of the task.
	ID int `json:"id" yaml:"id" validate:"gt=0"`

	// Category is the task family (e.g. "TurnKnob", "PushButton").
	Category string `json:"category" yaml:"category" validate:"required,category"`

	// Instruction is the text shown to the operator.
	Instruction string `json:"instruction" yaml:"instruction" validate:"required"`

	// TargetPosition is the destination position for axis-linked tasks.
	TargetPosition *int `json:"target_position,omitempty" yaml:"target_position,omitempty" validate:"omitempty,gte=1"`

	// AxisKey names the sub-axis when a category is split (e.g. "top").
	AxisKey string `json:"axis_key,omitempty" yaml:"axis_key,omitempty" validate:"omitempty,alphanum"`
}

// Axis returns the axis this record belongs to, with the key lower-cased.
func (r TaskRecord) Axis() AxisID {
	return NewAxisID(r.Category, r.AxisKey)
}

// HasTarget reports whether the record carries a target position.
func (r TaskRecord) HasTarget() bool {
	return r.TargetPosition != nil
}

// Target returns the target position, or 0 when the record has none.
func (r TaskRecord) Target() Position {
	if r.TargetPosition == nil {
		return 0
	}
	return Position(*r.TargetPosition)
}

// Descriptor is the result of one engine step: the task to perform next.
type Descriptor struct {
	// TaskID is the chosen record's id.
	TaskID int `json:"task_id"`

	// Label is the category name, suffixed with the axis key for split axes.
	Label string `json:"label"`

	// Category is the plain category name.
	Category string `json:"category"`

	// Instruction is the text to show the operator.
	Instruction string `json:"instruction"`

	// Transition is the axis move this task demonstrates (nil for simple categories).
	Transition *Transition `json:"transition,omitempty"`

	// Fallback is true when no record matched the transition's destination
	// and the task was sampled from the whole category instead.
	Fallback bool `json:"fallback,omitempty"`
}

// Target returns a pointer to p, for building records in code.
func Target(p int) *int {
	return &p
}
