package session

// Cookie is one persisted cookie record. The JSON field names match the
// cookie objects browsers hand back, so the file stays readable by other
// tooling.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Credential is the ordered cookie set that resumes an authenticated
// portal session. It is replaced wholesale on every save.
type Credential []Cookie

// Usable reports whether the credential can be replayed into a browser.
func (c Credential) Usable() bool {
	return len(c) > 0
}
