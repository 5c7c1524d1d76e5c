package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soyunomas/dircompare/internal/config"
	"github.com/soyunomas/dircompare/internal/engine"
	"github.com/soyunomas/dircompare/internal/report"
	"github.com/soyunomas/dircompare/internal/scanner"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "dircompare [lhs] [rhs]",
	Short: "Encuentra archivos duplicados y únicos por contenido",
	Long: "dircompare compara uno o dos árboles de directorios por contenido real\n" +
		"(no por nombre) y reporta los grupos de duplicados, los archivos sin\n" +
		"pareja y los archivos de tamaño cero.",
	Args: cobra.MaximumNArgs(2),
	RunE: run,
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("output", "o", "", "Escribe el reporte a un archivo en lugar de stdout")
	rootCmd.Flags().BoolP("verbose", "v", false, "Progreso y diagnósticos extendidos")
	rootCmd.Flags().Bool("json", false, "Reporte en formato JSON")
	rootCmd.Flags().String("read-size", config.FormatSize(config.DefaultReadSize),
		"Tamaño de bloque para la comparación secuencial")
	rootCmd.Flags().String("hash-size", config.FormatSize(config.DefaultHashSize),
		"Cuántos bytes del inicio del archivo entran al hash parcial")
	rootCmd.Flags().String("max-file-size", config.FormatSize(config.DefaultMaxFileSize),
		"Tamaño máximo para leer un archivo entero en memoria")
	rootCmd.Flags().Bool("chunks-only", false, "Nunca leer archivos enteros en memoria")
	rootCmd.Flags().StringSlice("exclude", nil, "Patrón glob a ignorar (repetible)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}

	cfg := config.Default()
	if len(args) > 0 {
		cfg.Lhs = args[0]
	}
	if len(args) > 1 {
		cfg.Rhs = args[1]
	}
	cfg.Output = viper.GetString("output")
	cfg.Verbose = viper.GetBool("verbose")
	cfg.JSON = viper.GetBool("json")
	cfg.ChunksOnly = viper.GetBool("chunks_only")
	cfg.Excludes = viper.GetStringSlice("exclude")

	var err error
	if cfg.ReadSize, err = parseSizeFlag("read_size"); err != nil {
		return err
	}
	if cfg.HashSize, err = parseSizeFlag("hash_size"); err != nil {
		return err
	}
	maxSize, err := config.ParseSize(viper.GetString("max_file_size"))
	if err != nil {
		return err
	}
	cfg.MaxFileSize = maxSize

	setupLogger(cfg.Verbose)

	// Canonicalización: fatal si alguna raíz no resuelve.
	if err := cfg.Resolve(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	// Pre-creamos el archivo de salida: mejor fallar ahora que después de
	// recorrer millones de archivos.
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("no se pudo crear el archivo de salida %q: %w", cfg.Output, err)
		}
		f.Close()
	}

	if cfg.Verbose {
		slog.Debug("configuración resuelta",
			"lhs", cfg.Lhs, "rhs", cfg.Rhs,
			"read_size", cfg.ReadSize, "hash_size", cfg.HashSize,
			"max_file_size", cfg.MaxFileSize, "chunks_only", cfg.ChunksOnly)
	}

	start := time.Now()

	sc := scanner.New(scanner.Config{Excludes: cfg.Excludes})
	prep := engine.Preprocess(&cfg, sc)
	cmp := engine.NewComparator(&cfg)

	showProgress := cfg.Verbose && !cfg.JSON && isatty.IsTerminal(os.Stdout.Fd())
	if showProgress {
		cmp.OnProgress = renderProgress
	}

	res := engine.Process(prep, cmp)
	if showProgress {
		fmt.Println()
	}

	rpt, err := report.Build(&res, report.Metadata{
		Lhs:       cfg.Lhs,
		Rhs:       cfg.Rhs,
		Timestamp: time.Now(),
		Duration:  time.Since(start).Round(time.Millisecond).String(),
	})
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		fmt.Printf("Escribiendo el reporte a '%s'\n", cfg.Output)
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("no se pudo crear el archivo de salida %q: %w", cfg.Output, err)
		}
		defer f.Close()
		if err := rpt.WriteJSON(f); err != nil {
			return err
		}
	} else if cfg.JSON {
		if err := rpt.WriteJSON(os.Stdout); err != nil {
			return err
		}
	} else {
		printText(rpt)
	}

	fmt.Println("🏁 dircompare completado!")
	return nil
}

func bindFlags(cmd *cobra.Command) error {
	keys := map[string]string{
		"output":        "output",
		"verbose":       "verbose",
		"json":          "json",
		"read_size":     "read-size",
		"hash_size":     "hash-size",
		"max_file_size": "max-file-size",
		"chunks_only":   "chunks-only",
		"exclude":       "exclude",
	}
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	viper.SetEnvPrefix("DIRCOMPARE")
	viper.AutomaticEnv()
	return nil
}

func parseSizeFlag(key string) (int, error) {
	n, err := config.ParseSize(viper.GetString(key))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// setupLogger manda todos los diagnósticos a stderr con tint; verbose baja
// el nivel a Debug (crecimiento de buffers, archivos especiales omitidos).
func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

// renderProgress reescribe una sola línea de consola con el porcentaje.
func renderProgress(done, total int) {
	if total == 0 {
		return
	}
	fmt.Printf("\r🔄 Comparando... %3d%% (%d/%d)", done*100/total, done, total)
}

func printText(r *report.Report) {
	fmt.Printf("📂 Comparado %s vs %s en %s\n", cyan(r.Metadata.Lhs), cyan(r.Metadata.Rhs), r.Metadata.Duration)
	fmt.Println("------------------------------------------------")

	if len(r.Same) == 0 {
		fmt.Println(green("✅ No se encontraron duplicados."))
	} else {
		fmt.Println(red("🔴 DUPLICADOS ENCONTRADOS:"))
		for _, group := range r.Same {
			fmt.Printf("   📦 Grupo (%s, %d archivos)\n", config.FormatSize(group[0].Size), len(group))
			for _, f := range group {
				fmt.Printf("      - %s\n", f.Path)
			}
		}
	}

	if len(r.Zero) > 0 {
		fmt.Printf("⚪ Archivos de tamaño cero: %d\n", len(r.Zero))
		for _, f := range r.Zero {
			fmt.Printf("      - %s\n", f.Path)
		}
	}

	fmt.Println("------------------------------------------------")
	fmt.Printf("🏷️  Archivos escaneados: %d | Únicos: %d | Grupos: %d | Hard links: %d\n",
		r.Summary.TotalFilesScanned, len(r.Unique), r.Summary.DuplicateGroups, r.Summary.TotalHardLinks)
	fmt.Printf("💾 Espacio recuperable: %s\n", r.Summary.BytesWastedHuman)
}
