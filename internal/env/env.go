// Env package is meant to be used for loading config files
//
// Usage:
//
//	type Cfg struct {}
//	func (c *Cfg) Validate() error { return nil }
//
//	loader := env.NewLoader(&Cfg{})
//	loader.RegisterCallback(env.MustFn(env.FromYAMLConfigs[*Cfg]("xsftp")))
//	cfg, err := loader.Load()
//	if err != nil {
//		panic(err)
//	}
//
// Values are merged with mergo.WithOverride, so a zero value in a file
// (false, 0, "") never replaces a non-zero default.
package env
