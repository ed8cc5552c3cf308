// Package di provides dependency injection container
package di

import (
	"github.com/freyjadb/freyjadb/pkg/api" //nolint:depguard
	"github.com/freyjadb/freyjadb/pkg/config"
	"github.com/freyjadb/freyjadb/pkg/store"
)

// TreeFactory creates the ordered index's backing config from a BTree
// section, filling in sensible defaults for zero values.
type TreeFactory interface {
	// CreateIndexConfig builds a HashIndexConfig (the ordered index's
	// config type) from a BTree configuration section.
	CreateIndexConfig(btreeCfg config.BTree) store.HashIndexConfig
}

// DefaultTreeFactory is the default implementation of TreeFactory.
type DefaultTreeFactory struct{}

// NewTreeFactory creates a new tree factory.
func NewTreeFactory() TreeFactory {
	return &DefaultTreeFactory{}
}

// CreateIndexConfig implements TreeFactory.
func (f *DefaultTreeFactory) CreateIndexConfig(btreeCfg config.BTree) store.HashIndexConfig {
	degree := btreeCfg.Degree
	if degree < 3 || degree > 1024 {
		degree = 64
	}
	poolSize := btreeCfg.PoolSize
	if poolSize <= 0 {
		poolSize = 8192
	}
	return store.HashIndexConfig{
		Degree:   degree,
		PoolSize: poolSize,
	}
}

// Container holds all the dependencies for the application
type Container struct {
	systemServiceFactory api.SystemServiceFactory
	serverFactory        api.ServerFactory
	treeFactory          TreeFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		systemServiceFactory: api.NewSystemServiceFactory(),
		serverFactory:        api.NewServerFactory(),
		treeFactory:          NewTreeFactory(),
	}
}

// GetTreeFactory returns the tree factory
func (c *Container) GetTreeFactory() TreeFactory {
	return c.treeFactory
}

// SetTreeFactory allows overriding the tree factory (for testing)
func (c *Container) SetTreeFactory(factory TreeFactory) {
	c.treeFactory = factory
}

// GetSystemServiceFactory returns the system service factory
func (c *Container) GetSystemServiceFactory() api.SystemServiceFactory {
	return c.systemServiceFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetSystemServiceFactory allows overriding the system service factory (for testing)
func (c *Container) SetSystemServiceFactory(factory api.SystemServiceFactory) {
	c.systemServiceFactory = factory
}
