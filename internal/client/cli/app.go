// Package cli implements the hashzone command line client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/hashzone/internal/client/api"
	"github.com/dmitrijs2005/hashzone/internal/client/config"
	"github.com/dmitrijs2005/hashzone/internal/client/localdb"
	"github.com/dmitrijs2005/hashzone/internal/client/models"
	"github.com/dmitrijs2005/hashzone/internal/client/repositories/settings"
	"github.com/dmitrijs2005/hashzone/internal/client/service"
	"github.com/dmitrijs2005/hashzone/internal/client/store"
)

// fileWorkflows is the command surface the dispatcher needs. The real
// service.FileService satisfies it; tests provide a lightweight stub.
type fileWorkflows interface {
	StoreFile(ctx context.Context, path, label string) (string, error)
	StoreFileLocal(ctx context.Context, path, label string) (string, error)
	LoadFile(ctx context.Context, uri, dest string) (string, error)
	FileInfo(ctx context.Context, uri string) (*api.FindFileResponse, error)
	ListFiles(ctx context.Context) ([]*models.StoredFile, error)
	PushLocal(ctx context.Context) (int, error)
	Forget(ctx context.Context, uri string) error
}

type App struct {
	config   *config.Config
	files    fileWorkflows
	settings settings.Repository
	repos    *localdb.Repositories
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	repos, err := localdb.InitDatabase(ctx, filepath.Join(c.DataDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("initializing local database: %w", err)
	}

	apiKey, err := repos.Settings.Get(ctx, settings.KeyAPIKey)
	if err != nil {
		repos.DB.Close()
		return nil, err
	}

	st, err := store.NewFileStore(c.DataDir)
	if err != nil {
		repos.DB.Close()
		return nil, err
	}

	apiClient := api.NewClient(c.ServerEndpointAddr, string(apiKey))
	svc := service.NewFileService(apiClient, st, repos.Files, c.ZoneName)

	return &App{
		config:   c,
		files:    svc,
		settings: repos.Settings,
		repos:    repos,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Close() {
	if a.repos != nil {
		a.repos.DB.Close()
	}
}

// Run dispatches a single command. args is os.Args[1:] with the global
// flags (-a, -z, -d, -c/-config) already consumed by the config loader.
func (a *App) Run(ctx context.Context, args []string) error {
	args = stripGlobalFlags(args)
	if len(args) == 0 {
		a.printUsage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "store":
		return a.cmdStore(ctx, rest, false)
	case "store-local":
		return a.cmdStore(ctx, rest, true)
	case "load":
		return a.cmdLoad(ctx, rest)
	case "info":
		return a.cmdInfo(ctx, rest)
	case "list":
		return a.cmdList(ctx)
	case "push":
		return a.cmdPush(ctx)
	case "forget":
		return a.cmdForget(ctx, rest)
	case "set-api-key":
		return a.cmdSetAPIKey(ctx)
	case "help":
		a.printUsage()
		return nil
	default:
		a.printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// stripGlobalFlags drops flag/value pairs the config loader already
// handled, leaving only the command and its arguments.
func stripGlobalFlags(args []string) []string {
	out := make([]string, 0, len(args))
	skip := false
	for _, arg := range args {
		if skip {
			skip = false
			continue
		}
		switch arg {
		case "-a", "-z", "-d", "-c", "-config":
			skip = true
		default:
			out = append(out, arg)
		}
	}
	return out
}

func (a *App) cmdStore(ctx context.Context, args []string, localOnly bool) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: store [-local] <file> [label]")
	}
	path := args[0]

	label := filepath.Base(path)
	if len(args) > 1 {
		label = args[1]
	}

	var uri string
	var err error
	if localOnly {
		uri, err = a.files.StoreFileLocal(ctx, path, label)
	} else {
		uri, err = a.files.StoreFile(ctx, path, label)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, uri)
	return nil
}

func (a *App) cmdLoad(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: load <uri> [dest]")
	}
	uri := args[0]
	dest := ""
	if len(args) > 1 {
		dest = args[1]
	}

	path, err := a.files.LoadFile(ctx, uri, dest)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, path)
	return nil
}

func (a *App) cmdInfo(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: info <uri>")
	}

	info, err := a.files.FileInfo(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "found: %v\n", info.Found)
	fmt.Fprintf(a.out, "size: %d\n", info.Size)
	fmt.Fprintf(a.out, "bucketUri: %s\n", info.BucketURI)
	fmt.Fprintf(a.out, "objectKey: %s\n", info.ObjectKey)
	return nil
}

func (a *App) cmdList(ctx context.Context) error {
	all, err := a.files.ListFiles(ctx)
	if err != nil {
		return err
	}

	for _, f := range all {
		status := "local"
		if f.Uploaded {
			status = "uploaded:" + f.ZoneName
		}
		fmt.Fprintf(a.out, "%s\t%d\t%s\t%s\n", service.FormatURI(f.Hash, ""), f.Size, status, f.Label)
	}
	return nil
}

func (a *App) cmdPush(ctx context.Context) error {
	n, err := a.files.PushLocal(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "uploaded %d file(s)\n", n)
	return nil
}

func (a *App) cmdForget(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: forget <uri>")
	}
	uri := args[0]

	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Remove %s from the local index? (y/N)", uri), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "aborted")
		return nil
	}

	if err := a.files.Forget(ctx, uri); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "removed")
	return nil
}

func (a *App) cmdSetAPIKey(ctx context.Context) error {
	key, err := GetSecret("Enter API key", a.out)
	if err != nil {
		return err
	}

	if len(key) == 0 {
		if err := a.settings.Delete(ctx, settings.KeyAPIKey); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "API key cleared")
		return nil
	}

	if err := a.settings.Set(ctx, settings.KeyAPIKey, key); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "API key saved")
	return nil
}

func (a *App) printUsage() {
	fmt.Fprintf(a.out, `hashzone client

Usage:
  hashzone [flags] <command> [arguments]

Commands:
  store <file> [label]        upload a file to the zone, print its URI
  store-local <file> [label]  store a file in the local store only
  load <uri> [dest]           resolve a URI to a local path, downloading if needed
  info <uri>                  show remote metadata for a URI
  list                        list locally indexed files
  push                        upload local-only files to the zone
  forget <uri>                remove a file from the local index
  set-api-key                 store the API key for server requests
  help                        show this message

Flags:
  -a string   base URL of the hashzone server (default %s)
  -z string   zone name (default %s)
  -d string   local data directory
  -c string   path to a JSON config file
`, "http://127.0.0.1:8080", "default")
}
