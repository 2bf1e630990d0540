package termmap

// Lookup returns the fixed translation of body into targetLanguage.
// Both keys are matched case-insensitively; the stored translation is returned verbatim.
func (t Table) Lookup(body, targetLanguage string) (string, bool) {
	if t == nil {
		return "", false
	}
	langs, ok := t[key(body)]
	if !ok {
		return "", false
	}
	translation, ok := langs[key(targetLanguage)]
	return translation, ok
}
