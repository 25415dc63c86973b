package widget

// Patch is a partial widget configuration used for shallow-merge updates.
//
// Nil fields are left untouched; non-nil fields replace the corresponding
// widget field wholesale. The ID is immutable and cannot be patched.
type Patch struct {
	Title           *string   `json:"title,omitempty"`
	Type            *Type     `json:"type,omitempty"`
	APIEndpoint     *string   `json:"apiEndpoint,omitempty"`
	RefreshInterval *int      `json:"refreshInterval,omitempty"`
	Layout          *Layout   `json:"layout,omitempty"`
	Settings        *Settings `json:"settings,omitempty"`
}

// Apply returns a copy of w with the patch's non-nil fields merged in.
func (p Patch) Apply(w Widget) Widget {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.APIEndpoint != nil {
		w.APIEndpoint = *p.APIEndpoint
	}
	if p.RefreshInterval != nil {
		w.RefreshInterval = *p.RefreshInterval
	}
	if p.Layout != nil {
		w.Layout = *p.Layout
	}
	if p.Settings != nil {
		w.Settings = *p.Settings
	}
	return w
}
