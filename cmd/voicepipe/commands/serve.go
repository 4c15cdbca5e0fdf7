package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/jaya855/voicepipe/internal/server"
	"github.com/jaya855/voicepipe/internal/services"
)

// ServeCommand returns the serve command that runs the HTTP upload service
func ServeCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the transcript upload and synthesis HTTP service",
		Description: `Starts the HTTP service that accepts transcript CSV uploads and produces
voiceover audio via Azure TTS.

When AWS_LAMBDA_RUNTIME_API is set the service runs as a Lambda handler
behind an ALB or API Gateway; otherwise it binds a local HTTP listener.

Examples:
  # Run locally against environment variable configuration
  voicepipe serve --env dev --disable-ssm --port 8080

  # Run with SSM Parameter Store configuration
  voicepipe serve --env prod`,
		Flags: append(containerFlags(),
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (ignored when running in Lambda)",
				Value:   "8080",
				EnvVars: []string{"PORT"},
			},
		),
		Action: func(c *cli.Context) error {
			return serveAction(c, logger)
		},
	}
}

func serveAction(c *cli.Context, logger *zerolog.Logger) error {
	container, err := setupContainer(c)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	var handler *server.Handler
	var appConfig *services.Config
	if err := container.Invoke(func(h *server.Handler, cfg *services.Config) {
		handler = h
		appConfig = cfg
	}); err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	httpHandler := server.CORSMiddleware(
		server.LoggingMiddleware(*logger)(handler.SetupRouter()),
	)

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		logger.Info().
			Str("env", c.String("env")).
			Str("bucket", appConfig.S3Bucket).
			Msg("Starting Lambda handler")
		lambda.Start(httpadapter.NewV2(httpHandler).ProxyWithContext)
		return nil
	}

	addr := ":" + c.String("port")
	logger.Info().
		Str("env", c.String("env")).
		Str("addr", addr).
		Str("bucket", appConfig.S3Bucket).
		Str("alb_dns_name", appConfig.ALBDNSName).
		Msg("Starting HTTP server")

	srv := &http.Server{
		Addr:    addr,
		Handler: httpHandler,
	}
	return srv.ListenAndServe()
}
