package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/ikauth"
)

var (
	urlTransforms []string
	urlPosition   string
	urlQuery      map[string]string
	urlLQIP       bool
)

var urlCmd = &cobra.Command{
	Use:   "url <path-or-src>",
	Short: "Build a delivery URL",
	Long: `Build an ImageKit delivery URL for a path or an absolute source URL.

Each --tr flag adds one step to the transformation chain, applied in the
order given. A step holds comma separated directives in either long or
short form.

Examples:
  ikauth-cli url default-image.jpg --tr height-300,width-200 --tr rt-90
  ikauth-cli url default-image.jpg --tr h-300 --position path
  ikauth-cli url https://ik.imagekit.io/demo/default-image.jpg --tr w-400
  ikauth-cli url default-image.jpg --lqip`,
	Args: cobra.ExactArgs(1),
	RunE: runURL,
}

func init() {
	urlCmd.Flags().StringArrayVar(&urlTransforms, "tr", nil, "transformation step, repeat to chain")
	urlCmd.Flags().StringVar(&urlPosition, "position", string(ikauth.PositionQuery), "where the chain goes: query or path")
	urlCmd.Flags().StringToStringVar(&urlQuery, "query", nil, "extra query parameters (key=value)")
	urlCmd.Flags().BoolVar(&urlLQIP, "lqip", false, "print the low quality placeholder URL instead")
}

func runURL(_ *cobra.Command, args []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	formatter := getFormatter()

	opts, err := buildImageOptions(args[0], urlTransforms, urlPosition, urlQuery)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	var out string
	if urlLQIP {
		img, imgErr := c.Image(opts, ikauth.DisplayOptions{LQIP: ikauth.LQIP{Active: true}})
		if imgErr != nil {
			_ = formatter.FormatError(os.Stderr, imgErr)
			return imgErr
		}
		out = img.PlaceholderSrc()
	} else {
		out, err = c.URL(opts)
		if err != nil {
			_ = formatter.FormatError(os.Stderr, err)
			return err
		}
	}

	return formatter.FormatURL(os.Stdout, out)
}

func buildImageOptions(target string, steps []string, position string, query map[string]string) (ikauth.ImageOptions, error) {
	pos, err := ikauth.ParseTransformationPosition(position)
	if err != nil {
		return ikauth.ImageOptions{}, err
	}

	opts := ikauth.ImageOptions{
		TransformationPosition: pos,
		QueryParameters:        query,
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		opts.Src = target
	} else {
		opts.Path = target
	}

	for _, step := range steps {
		tr, err := ikauth.ParseTransformation(step)
		if err != nil {
			return ikauth.ImageOptions{}, fmt.Errorf("--tr %q: %w", step, err)
		}
		opts.Transformation = append(opts.Transformation, tr...)
	}

	return opts, nil
}
