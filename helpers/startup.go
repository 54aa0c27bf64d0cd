package helpers

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/meethub/meethub-server/pkg/config"
	"github.com/meethub/meethub-server/pkg/factory"
)

// PrepareServer opens every backing connection the server needs. The
// connections are independent, so they are established concurrently and the
// first failure aborts startup.
func PrepareServer(ctx context.Context, appCnf *config.AppConfig) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return factory.NewDatabaseConnection(appCnf)
	})
	g.Go(func() error {
		return factory.NewRedisConnection(gctx, appCnf)
	})
	g.Go(func() error {
		return factory.NewNatsConnection(appCnf)
	})

	return g.Wait()
}

func ReadYamlConfigFile(cnfFile string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(cnfFile)
	if err != nil {
		return nil, err
	}

	appCnf := new(config.AppConfig)
	if err := yaml.Unmarshal(yamlFile, appCnf); err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	appCnf.RootWorkingDir = wd

	return appCnf, nil
}
