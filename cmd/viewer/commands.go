package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"teapot-viewer/internal/config"
	"teapot-viewer/internal/download"
	"teapot-viewer/internal/fonts"
	"teapot-viewer/internal/label"
	"teapot-viewer/internal/scene"
	"teapot-viewer/internal/teapot"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(borderStyle).
				Headers("preset", "canvas", "camera", "label", "explanation", "pages").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, name := range config.ListPresets() {
				p, err := config.GetPreset(name)
				if err != nil {
					return err
				}
				pos := p.Camera.Position
				t.Row(
					name,
					fmt.Sprintf("%s %.2f", p.Canvas.Mode, p.Canvas.Scale),
					fmt.Sprintf("%.0f, %.0f, %.0f", pos.X, pos.Y, pos.Z),
					strconv.FormatBool(p.Label.Enabled),
					strconv.FormatBool(p.UI.Explanation),
					strconv.Itoa(len(p.UI.Pages)),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func exportOBJCmd() *cobra.Command {
	var segments int
	var fitLid bool
	cmd := &cobra.Command{
		Use:   "export-obj [file]",
		Short: "write the teapot mesh as Wavefront OBJ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Teapot
			if cmd.Flags().Changed("segments") {
				opts.Segments = segments
			}
			if cmd.Flags().Changed("fit-lid") {
				opts.FitLid = fitLid
			}
			g, err := teapot.Generate(opts)
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("export-obj: %w", err)
			}
			if err := writeOBJ(f, g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d vertices, %d triangles\n", args[0], g.VertexCount(), g.TriangleCount())
			return nil
		},
	}
	cmd.Flags().IntVar(&segments, "segments", 15, "tessellation segments per patch edge")
	cmd.Flags().BoolVar(&fitLid, "fit-lid", false, "widen the lid to close the gap to the body")
	return cmd
}

// writeOBJ writes g to f and closes it; a failed close fails the export.
func writeOBJ(f io.WriteCloser, g *teapot.Geometry) (err error) {
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export-obj: %w", cerr)
		}
	}()
	if err := g.WriteOBJ(f); err != nil {
		return fmt.Errorf("export-obj: %w", err)
	}
	return nil
}

func labelCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "label [file.png]",
		Short: "render the label bitmap to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Label.Options
			if text != "" {
				opts.Text = text
			}
			if opts.Font != "" {
				if opts.Font, err = fonts.Find(fonts.DefaultDir, opts.Font, "bold"); err != nil {
					return err
				}
			}
			img, err := label.Render(opts)
			if err != nil {
				return err
			}
			if err := imgio.Save(args[0], img, imgio.PNGEncoder()); err != nil {
				return fmt.Errorf("label: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d\n", args[0], img.Bounds().Dx(), img.Bounds().Dy())
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "label text (default from config)")
	return cmd
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the effective configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
}

func fetchSkyboxCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "fetch-skybox [base-url or zip-url]",
		Short: "download the six cubemap faces into the skybox directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				dir = cfg.Scene.Skybox
			}
			saved, err := download.Skybox(cmd.Context(), args[0], dir)
			if err != nil {
				return err
			}
			if _, err := scene.LoadFaces(dir, 0, 1); err != nil {
				return err
			}
			for _, p := range saved {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "target directory (default scene.skybox from config)")
	return cmd
}
