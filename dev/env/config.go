package devenv

// LiveTestConfig is read from dev/.state/tsb_config.json5 to run tests
// against the real online banking site.
type LiveTestConfig struct {
	BaseUrl      string `json:"base_url"`
	CookieDomain string `json:"cookie_domain"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}
