package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"streamdock/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes extraction and the video library over a JSON HTTP API:

  POST   /api/extract       extract a video from {"url": "..."}
  GET    /api/library       list saved videos, newest first
  POST   /api/library       save a video
  PATCH  /api/library/:id   update title, tags, folder, or watch progress
  DELETE /api/library/:id   remove a video`,
	RunE: serveRun,
}

func serveRun(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(cfg, newPipeline(), store)

	fmt.Printf("Listening on http://%s\n", cfg.Listen)
	return srv.Run()
}
