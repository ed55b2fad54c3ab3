package main

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"tagrender/internal/ports"
)

func (a *App) logoCmd() *cobra.Command {
	var size sizeFlags

	cmd := &cobra.Command{
		Use:   "logo",
		Short: "Render the branding logo",
		Long: `Render the stored branding asset scaled to fit the canvas.

Use "tagctl logo push <file>" to replace the asset first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := a.setup(cmd.Context())
			if err != nil {
				return err
			}
			asset, err := deps.Logo.Image(cmd.Context())
			if err != nil {
				return err
			}
			t, err := deps.Renderer.RenderLogo(size.width, size.height, asset)
			if err != nil {
				return err
			}
			return a.writeTag(t, size.output)
		},
	}

	size.register(cmd)
	cmd.AddCommand(a.logoPushCmd())
	return cmd
}

func (a *App) logoPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file>",
		Short: "Upload a new logo asset to the configured storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			img, err := imaging.Decode(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s is not a supported image: %w", path, err)
			}

			deps, err := a.setup(cmd.Context())
			if err != nil {
				return err
			}

			contentType := mime.TypeByExtension(filepath.Ext(path))
			if contentType == "" {
				contentType = http.DetectContentType(data)
			}
			out, err := deps.Storage.PutObject(cmd.Context(), ports.PutObjectInput{
				ObjectKey:   deps.Logo.Key(),
				ContentType: contentType,
				Reader:      bytes.NewReader(data),
				Size:        int64(len(data)),
			})
			if err != nil {
				return err
			}
			deps.Logo.Reset()

			b := img.Bounds()
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s as %s on %s (%dx%d, %d bytes)\n",
				filepath.Base(path), out.ObjectKey, deps.Storage.Provider(), b.Dx(), b.Dy(), out.Size)
			return nil
		},
	}
}
