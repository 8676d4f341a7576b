package cmd

import (
	"time"

	"github.com/jsphweid/ssedit/catalog"
	"github.com/jsphweid/ssedit/config"
	"github.com/jsphweid/ssedit/constants"
	"github.com/jsphweid/ssedit/editor"
	"github.com/jsphweid/ssedit/file"
	"github.com/jsphweid/ssedit/model"
	"github.com/jsphweid/ssedit/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveFormat   string
	serveAutosave time.Duration
	serveOrigins  []string
)

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	serveCmd.Flags().StringVarP(&serveFormat, "format", "f", "sspm", "format of a new level when no path is given")
	serveCmd.Flags().DurationVar(&serveAutosave, "autosave", 2*time.Second, "save this long after the last edit, 0 to disable")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origins, any when empty")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [level]",
	Short: "Serves an editing session to the browser front end",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(args)
	},
}

func serve(args []string) error {
	log := logger()
	fs := file.NewOSFileSystem()

	prefs := config.DefaultPreferences()
	palette, err := config.LoadPalette(fs, constants.GetColorsPath())
	if err != nil {
		log.Printf("using the default palette: %v\n", err)
	} else {
		prefs.Palette = palette
	}
	opts := editor.Options{FileSystem: fs, Logger: log, Preferences: &prefs}

	var session *editor.Session
	if len(args) == 1 {
		session, err = editor.Open(args[0], opts)
		if err != nil {
			return err
		}
	} else {
		format, _ := model.ParseFormat(serveFormat)
		session = editor.New(format, opts)
	}

	srvOpts := server.Options{
		Logger:         log,
		AutosaveDelay:  serveAutosave,
		AllowedOrigins: serveOrigins,
	}
	cat, err := catalog.Open(constants.GetCatalogPath())
	if err != nil {
		log.Printf("recent levels are not tracked: %v\n", err)
	} else {
		defer cat.Close()
		srvOpts.Catalog = cat
	}
	return server.New(session, srvOpts).ListenAndServe(serveAddr)
}
