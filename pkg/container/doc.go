// SPDX-License-Identifier: MPL-2.0

// Package container provides the dependency container shared by the whole
// application for the lifetime of the process.
//
// The container exposes a small fixed set of operations: Bind, Singleton,
// Instance, Alias, Make and the indexed Get/Set pair. Go has no run-time
// constructor injection, so every binding is an explicit Factory that
// resolves what it needs from the container it receives:
//
//	c := container.New()
//	c.Instance("config", store)
//	c.Singleton("db", func(c *container.Container) (any, error) {
//		cfg, err := container.Resolve[*config.Store](c, "config")
//		if err != nil {
//			return nil, err
//		}
//		return sql.Open(cfg.String("database.driver"), cfg.String("database.dsn"))
//	})
//
// Services can be addressed by a short name and by any number of aliases,
// typically type identifiers produced by KeyOf.
package container
