package schema

// Record holds the extracted values for one listing element. Values are
// untyped scalars (string or float64); a missing key means the field could
// not be extracted. Absence is always per-field, never per-record.
type Record struct {
	// Keyword is the search term that produced this record.
	Keyword string

	fields map[Field]any
}

// NewRecord creates an empty record for a search term.
func NewRecord(keyword string) *Record {
	return &Record{
		Keyword: keyword,
		fields:  make(map[Field]any, len(Descriptors)),
	}
}

// Set stores a field value.
func (r *Record) Set(f Field, v any) {
	r.fields[f] = v
}

// Get retrieves a field value.
func (r *Record) Get(f Field) (any, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Has returns true if the field was extracted.
func (r *Record) Has(f Field) bool {
	_, ok := r.fields[f]
	return ok
}

// String retrieves a field value as a string.
func (r *Record) String(f Field) (string, bool) {
	v, ok := r.fields[f]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float retrieves a field value as a float64.
func (r *Record) Float(f Field) (float64, bool) {
	v, ok := r.fields[f]
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

// Len returns the number of extracted fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Flat returns a copy of the record as a flat map keyed by field name,
// suitable for JSON or document storage.
func (r *Record) Flat() map[string]any {
	flat := make(map[string]any, len(r.fields)+1)
	flat["keyword"] = r.Keyword
	for f, v := range r.fields {
		flat[string(f)] = v
	}
	return flat
}
