package di

import (
	"github.com/jaya855/voicepipe/internal/azure"
	"github.com/jaya855/voicepipe/internal/dao/jobdao"
	"github.com/jaya855/voicepipe/internal/pipeline"
	"github.com/jaya855/voicepipe/internal/server"
	"github.com/jaya855/voicepipe/internal/services"
)

func ProvideAzureClient(secrets *services.SecretsManagerService) *azure.Client {
	return azure.New(secrets)
}

func ProvidePipeline(store *services.S3Store, client *azure.Client, dao *jobdao.DAO, env string) *pipeline.Pipeline {
	// A nil *DAO must stay a nil interface, not a non-nil interface
	// wrapping a nil pointer.
	var tracker pipeline.Tracker
	if dao != nil {
		tracker = dao
	}
	return pipeline.New(store, client, tracker, env)
}

func ProvideHandler(p *pipeline.Pipeline, client *azure.Client, dao *jobdao.DAO, env string) *server.Handler {
	var jobs server.JobStore
	if dao != nil {
		jobs = dao
	}
	return server.NewHandler(p, client, jobs, env)
}
