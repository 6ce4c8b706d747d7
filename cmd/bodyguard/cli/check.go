package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkingovr/body-guard/api"
	"github.com/tkingovr/body-guard/internal/body"
	"github.com/tkingovr/body-guard/internal/host"
	"github.com/tkingovr/body-guard/internal/stage"
)

var (
	checkDirection string
	checkSegments  int
	checkMethod    string
	checkPath      string
	checkType      string
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] FILE",
	Short: "Run a file through the filter stages without a running proxy",
	Long: `Check what a body would go through without running the proxy. The
file is handed to the stages as a chain of file-backed segments, the way
a server delivers a large buffered body, and the result is printed as
JSON.`,
	Example: `  bodyguard check --direction inbound upload.bin
  bodyguard check -c bodyguard.yaml --direction outbound --segments 4 page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkDirection, "direction", "outbound", "inbound (request body) or outbound (response body)")
	checkCmd.Flags().IntVar(&checkSegments, "segments", 1, "number of file-backed segments to split the body into")
	checkCmd.Flags().StringVar(&checkMethod, "method", "POST", "request method seen by the filters")
	checkCmd.Flags().StringVar(&checkPath, "path", "/", "request path seen by the filters")
	checkCmd.Flags().StringVar(&checkType, "content-type", "application/octet-stream", "request content type seen by the filters")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkDirection != "inbound" && checkDirection != "outbound" {
		return fmt.Errorf("invalid --direction %q: must be inbound or outbound", checkDirection)
	}
	if checkSegments < 1 {
		return fmt.Errorf("invalid --segments %d: must be at least 1", checkSegments)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(cfg, logger, nil)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening body file: %w", err)
	}
	defer f.Close()

	in, err := splitFile(f, checkSegments)
	if err != nil {
		return err
	}

	r := host.NewRequest(checkMethod, checkPath, cfg.Body.ArenaLimit)
	r.ContentType = checkType

	st := api.StageOutputBody
	if checkDirection == "inbound" {
		st = api.StageAccess
	}
	resp, err := stage.Check(context.Background(), pipeline, st, r, in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if resp.Verdict == api.VerdictError {
		return errors.New("stage failed, see log for details")
	}
	return nil
}

// splitFile returns a chain of n file-backed links covering f. Links are
// as even as possible; an empty file yields one empty link.
func splitFile(f *os.File, n int) (*body.Link, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading body file: %w", err)
	}
	size := fi.Size()
	if int64(n) > size {
		n = max(int(size), 1)
	}

	links := make([]*body.Link, 0, n)
	var pos int64
	for i := range n {
		end := size * int64(i+1) / int64(n)
		links = append(links, body.FileLink(f, pos, end))
		pos = end
	}
	return body.Chain(links...), nil
}
