package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arismemo/quotation/internal/actions"
	"github.com/arismemo/quotation/internal/form"
	"github.com/arismemo/quotation/internal/media"
)

func newRootCommand(
	lookupEnv func(string) (string, bool),
	stdin io.Reader,
	stdout, stderr io.Writer,
) (*cobra.Command, func() error) {
	var (
		configPath string
		assumeYes  bool
		current    *app
	)

	root := &cobra.Command{
		Use:           "quotation",
		Short:         "Command line client for the quotation service",
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, configNotExist, err := loadConfig(configPath, lookupEnv)
			if err != nil {
				return err
			}
			current, err = newApp(conf, configNotExist, stdin, stdout, stderr, &assumeYes)
			return err
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")
	root.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")

	getApp := func() *app { return current }

	root.AddCommand(
		newValidateCommand(getApp),
		newUploadCommand(getApp),
		newQuoteCommand(getApp),
		newHistoryCommand(getApp),
		newFavoritesCommand(getApp),
		newAnalyzeCommand(getApp),
		newHealthCommand(getApp),
		newConfigCommand(getApp),
	)

	closeApp := func() error {
		if current == nil {
			return nil
		}
		return current.Close()
	}
	return root, closeApp
}

func reported(ok bool) error {
	if !ok {
		return errReported
	}
	return nil
}

func newValidateCommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file can be uploaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()

			file, err := media.Load(args[0])
			if err != nil {
				return err
			}

			result := media.NewValidator(a.conf.Upload).Validate(file)
			if !result.Valid {
				a.toasts.Error(result.Error)
				return errReported
			}
			a.toasts.Success(file.Name + " 可以上传")
			return nil
		},
	}
}

func newUploadCommand(getApp func() *app) *cobra.Command {
	var noCompress bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Compress and upload an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()

			file, err := media.Load(args[0])
			if err != nil {
				return err
			}

			result, err := a.service(!noCompress).UploadImage(cmd.Context(), file)
			if err != nil {
				return errReported
			}
			if result == nil {
				return errReported
			}
			return printYAML(a.stdout, result)
		},
	}
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, "upload the file as is")
	return cmd
}

type numberFlag struct {
	name  string
	label string
	lower float64
	upper float64
	value string
}

func newQuoteCommand(getApp func() *app) *cobra.Command {
	numbers := []*numberFlag{
		{name: "length", label: "长度", lower: 0, upper: math.Inf(1)},
		{name: "width", label: "宽度", lower: 0, upper: math.Inf(1)},
		{name: "thickness", label: "厚度", lower: 0, upper: math.Inf(1)},
		{name: "color-count", label: "颜色数量", lower: 0, upper: math.Inf(1), value: "1"},
		{name: "area-ratio", label: "占用面积比例", lower: 0, upper: 1, value: "1"},
		{name: "difficulty", label: "难度系数", lower: 0, upper: math.Inf(1), value: "1"},
		{name: "quantity", label: "订单数量", lower: 1, upper: math.Inf(1), value: "1"},
	}
	var workerType string
	var debug bool

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()

			values := map[string]float64{}
			var invalid []error
			for _, number := range numbers {
				field := form.Attach(form.NewField(number.name), form.Number(number.label, number.lower, number.upper))
				field.Input(number.value)
				field.Blur()
				if field.HasError() {
					invalid = append(invalid, errors.New(field.ErrorMessage()))
					continue
				}
				parsed, _ := strconv.ParseFloat(number.value, 64)
				values[number.name] = parsed
			}
			if len(invalid) > 0 {
				for _, err := range invalid {
					a.toasts.Error(err.Error())
				}
				return errReported
			}

			quote, err := a.service(false).CalculateQuote(cmd.Context(), actions.QuoteRequest{
				Length:           values["length"],
				Width:            values["width"],
				Thickness:        values["thickness"],
				ColorCount:       int(values["color-count"]),
				AreaRatio:        values["area-ratio"],
				DifficultyFactor: values["difficulty"],
				OrderQuantity:    int(values["quantity"]),
				WorkerType:       workerType,
				Debug:            debug,
			})
			if err != nil {
				return errReported
			}
			return printYAML(a.stdout, quote)
		},
	}

	for _, number := range numbers {
		cmd.Flags().StringVar(&number.value, number.name, number.value, number.label)
	}
	for _, required := range []string{"length", "width", "thickness"} {
		_ = cmd.MarkFlagRequired(required)
	}
	cmd.Flags().StringVar(&workerType, "worker-type", "standard", "工人类型")
	cmd.Flags().BoolVar(&debug, "debug", false, "ask the backend for the calculation details")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newHistoryCommand(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and clean up past quotes",
	}

	var query actions.HistoryQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List past quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()

			items, err := a.service(false).LoadHistory(cmd.Context(), query)
			if err != nil {
				return errReported
			}
			renderHistory(a.stdout, items)
			return nil
		},
	}
	list.Flags().IntVar(&query.Offset, "offset", 0, "number of entries to skip")
	list.Flags().IntVar(&query.Limit, "limit", 20, "maximum number of entries")

	remove := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete past quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return reported(getApp().service(false).BatchDeleteHistory(cmd.Context(), ids))
		},
	}

	cmd.AddCommand(list, remove)
	return cmd
}

func newFavoritesCommand(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite quotes",
	}

	var keyword string
	list := &cobra.Command{
		Use:   "list",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()

			favorites, err := a.service(false).LoadFavorites(cmd.Context())
			if err != nil {
				return errReported
			}

			if keyword != "" {
				done := make(chan []actions.Favorite, 1)
				search := actions.NewFavoriteSearch(
					favorites,
					a.conf.UI.Debounce.Duration,
					func(_ string, matches []actions.Favorite) { done <- matches },
				)
				search.Search(keyword)

				select {
				case favorites = <-done:
				case <-cmd.Context().Done():
					search.Cancel()
					return cmd.Context().Err()
				}
			}

			renderFavorites(a.stdout, favorites)
			return nil
		},
	}
	list.Flags().StringVar(&keyword, "search", "", "only show favorites matching this keyword")

	var favorited bool
	toggle := &cobra.Command{
		Use:   "toggle <history-id>",
		Short: "Add a past quote to the favorites, or remove it with --favorited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return reported(getApp().service(false).ToggleFavorite(cmd.Context(), ids[0], favorited))
		},
	}
	toggle.Flags().BoolVar(&favorited, "favorited", false, "the quote is currently a favorite")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return reported(getApp().service(false).RemoveFavorite(cmd.Context(), ids[0]))
		},
	}

	var name, imagePath string
	note := &cobra.Command{
		Use:   "note <id>",
		Short: "Rename a favorite or attach an image to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return reported(
				getApp().service(false).SaveFavoriteNote(cmd.Context(), ids[0], name, imagePath),
			)
		},
	}
	note.Flags().StringVar(&name, "name", "", "new name, empty to clear")
	note.Flags().StringVar(&imagePath, "image", "", "path of an uploaded image, empty to clear")

	cmd.AddCommand(list, toggle, remove, note)
	return cmd
}

func newAnalyzeCommand(getApp func() *app) *cobra.Command {
	req := actions.AnalysisRequest{}

	cmd := &cobra.Command{
		Use:   "analyze <image-path>",
		Short: "Run image analyses on an uploaded image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			req.ImagePath = args[0]

			result, err := a.service(false).AnalyzeImage(cmd.Context(), req)
			if err != nil {
				return errReported
			}
			return printYAML(a.stdout, result)
		},
	}
	cmd.Flags().BoolVar(&req.AreaRatio, "area-ratio", true, "compute the occupied area ratio")
	cmd.Flags().BoolVar(&req.Colors, "colors", false, "count the colors")
	cmd.Flags().StringVar(&req.Method, "method", "opencv", "analysis method, rembg is slower")
	return cmd
}

func newHealthCommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()

			health, err := a.service(false).CheckHealth(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, health.Status)
			return err
		},
	}
}

func newConfigCommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()

			rendered, err := a.conf.Render()
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.stdout, rendered)
			return err
		},
	}
}
