package config

// Accessors with default fallbacks for values that may be unset in a
// hand-written config file.

// GetPromptReinsert returns whether check waits for the device to be re-inserted.
func (c *Config) GetPromptReinsert() bool {
	if c.Check.PromptReinsert == nil {
		return true
	}
	return *c.Check.PromptReinsert
}

// GetFileName returns the test file name with a default fallback.
func (c *Config) GetFileName() string {
	if c.Target.FileName == "" {
		return DefaultFileName
	}
	return c.Target.FileName
}
