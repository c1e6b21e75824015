package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sagarc03/ikauth/client"
)

var (
	uploadRecursive   bool
	uploadFolder      string
	uploadTags        []string
	uploadUnique      bool
	uploadPrivate     bool
	uploadOverwrite   bool
	uploadWebhookURL  string
	uploadCoordinates string
	uploadConcurrency int
	uploadRespFields  []string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>...",
	Short: "Upload files directly to ImageKit",
	Long: `Upload files directly to ImageKit.

Each file fetches its own signature, token and expiry from the token
service, then posts straight to the ImageKit upload API. One file failing
does not stop the others.

Examples:
  ikauth-cli upload ./photo.jpg
  ikauth-cli upload --folder /products --tags summer,sale ./a.png ./b.png
  ikauth-cli upload -r ./images/ --folder /gallery`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload directories recursively")
	uploadCmd.Flags().StringVar(&uploadFolder, "folder", "", "destination folder, starting with /")
	uploadCmd.Flags().StringSliceVar(&uploadTags, "tags", nil, "tags to attach")
	uploadCmd.Flags().BoolVar(&uploadUnique, "use-unique-file-name", true, "let ImageKit add a unique suffix to the file name")
	uploadCmd.Flags().BoolVar(&uploadPrivate, "private", false, "mark the file private")
	uploadCmd.Flags().BoolVar(&uploadOverwrite, "overwrite", false, "overwrite an existing file with the same name")
	uploadCmd.Flags().StringVar(&uploadWebhookURL, "webhook-url", "", "URL notified when extensions finish")
	uploadCmd.Flags().StringVar(&uploadCoordinates, "custom-coordinates", "", "area of interest as x,y,width,height")
	uploadCmd.Flags().StringSliceVar(&uploadRespFields, "response-fields", nil, "extra fields to include in the response")
	uploadCmd.Flags().IntVar(&uploadConcurrency, "concurrency", client.DefaultConcurrency, "number of parallel uploads")
}

func runUpload(cmd *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	formatter := getFormatter()

	paths, err := collectFiles(args, uploadRecursive)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	opts := client.UploadOptions{
		Folder:            uploadFolder,
		Tags:              uploadTags,
		CustomCoordinates: uploadCoordinates,
		ResponseFields:    uploadRespFields,
		WebhookURL:        uploadWebhookURL,
	}
	// Only send booleans the user set so ImageKit defaults stay in effect.
	if cmd.Flags().Changed("use-unique-file-name") {
		opts.UseUniqueFileName = &uploadUnique
	}
	if cmd.Flags().Changed("private") {
		opts.IsPrivateFile = &uploadPrivate
	}
	if cmd.Flags().Changed("overwrite") {
		opts.OverwriteFile = &uploadOverwrite
	}

	results, err := c.UploadFiles(cmd.Context(), paths, opts, uploadConcurrency)
	if err != nil && results == nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	if err := formatter.FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	// Check for any errors in results
	for i := range results {
		if results[i].Err != nil {
			return results[i].Err
		}
	}

	return err
}

// collectFiles expands directories when recursive is set. Plain files are
// returned as given.
func collectFiles(args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		if !recursive {
			return nil, fmt.Errorf("%s is a directory (use -r to upload recursively)", arg)
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	if len(paths) == 0 {
		return nil, client.ErrNoFiles
	}
	return paths, nil
}
