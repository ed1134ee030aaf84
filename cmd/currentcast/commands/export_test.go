package commands

// Config returns the configuration of the app.
func (a *App) Config() appConfig {
	return a.config
}

// SetArgs set some arguments on root command for tests.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}
