package model

// InputType identifies what kind of value the raw scan input was
// classified as. It decides which lookup modules apply to the scan.
type InputType string

// Input type constants.
const (
	// InputTypeEmail is a syntactically valid email address.
	InputTypeEmail InputType = "email"
	// InputTypeUsername is a platform handle or account name.
	InputTypeUsername InputType = "username"
	// InputTypeImageURL is an http(s) URL presumed to reference an image.
	InputTypeImageURL InputType = "image_url"
	// InputTypeUnknown is input that matched no recognizable shape.
	InputTypeUnknown InputType = "unknown"
)

// String returns the string representation of the InputType.
func (t InputType) String() string {
	if !t.IsValid() {
		return string(InputTypeUnknown)
	}
	return string(t)
}

// IsValid returns true if this is a known input type.
func (t InputType) IsValid() bool {
	switch t {
	case InputTypeEmail, InputTypeUsername, InputTypeImageURL, InputTypeUnknown:
		return true
	default:
		return false
	}
}

// InputClassification is the classified form of the raw scan input.
// It is created once per scan by the classifier and treated as immutable
// by every downstream module.
type InputClassification struct {
	// Type is the detected input kind.
	Type InputType `json:"type"`

	// Value is the normalized input: trimmed, and lowercased for emails.
	Value string `json:"value"`

	// Confidence is the classifier's [0,1] certainty in the detected type.
	// Overlapping patterns (a username that looks like a URL fragment, a
	// URL without an image extension) yield lower confidence.
	Confidence float64 `json:"confidence"`

	// Valid reports whether the input is usable for scanning at all.
	// Invalid input aborts the scan before any lookup module runs.
	Valid bool `json:"valid"`

	// Message carries an optional validation or advisory note, such as
	// "treating as username" for loosely matched input.
	Message string `json:"message,omitempty"`
}

// IsEmail returns true when the input classified as an email address.
func (c InputClassification) IsEmail() bool {
	return c.Type == InputTypeEmail
}

// IsUsername returns true when the input classified as a username.
func (c InputClassification) IsUsername() bool {
	return c.Type == InputTypeUsername
}

// IsImageURL returns true when the input classified as an image URL.
func (c InputClassification) IsImageURL() bool {
	return c.Type == InputTypeImageURL
}
