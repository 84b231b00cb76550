package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jonathan/pkgscout/internal/advisory"
	"github.com/jonathan/pkgscout/internal/approval"
	"github.com/jonathan/pkgscout/internal/config"
	"github.com/jonathan/pkgscout/internal/intake"
	"github.com/jonathan/pkgscout/internal/llm"
	"github.com/jonathan/pkgscout/internal/pipeline"
	"github.com/jonathan/pkgscout/internal/provision"
	"github.com/jonathan/pkgscout/internal/recommend"
	"github.com/jonathan/pkgscout/internal/registry"
	"github.com/jonathan/pkgscout/internal/types"
)

var installCommand = &cobra.Command{
	Use:   "install",
	Short: "Scaffold a project and install packages intelligently",
	Long: `Collects the project intent, refines the package list through LLM analysis
cross-referenced against GitHub and PyPI, asks for per-suggestion approval,
then creates a uv virtual environment with the approved packages installed.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values; environment variables fill the rest.`,
	RunE: runInstall,
}

var (
	installConfigPath  string
	installName        string
	installDescription string
	installLocation    string
	installPackages    string
	installAPIKey      string
	installGitHubToken string
	installModel       string
	installVerbose     bool
)

func init() {
	// Config file flag (processed first)
	installCommand.Flags().StringVar(&installConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	installCommand.Flags().StringVarP(&installName, "name", "n", "", "Project name")
	installCommand.Flags().StringVarP(&installDescription, "description", "d", "", "Project description (helps with package recommendations)")
	installCommand.Flags().StringVarP(&installLocation, "location", "l", "", "Parent directory for the project (default: current directory)")
	installCommand.Flags().StringVarP(&installPackages, "packages", "p", "", "Packages to install (comma or space separated)")
	installCommand.Flags().BoolVarP(&installVerbose, "verbose", "v", false, "Print detailed debug information")

	// Credentials can be passed as flags, or read from env vars
	installCommand.Flags().StringVar(&installAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	installCommand.Flags().StringVar(&installGitHubToken, "github-token", "", "GitHub token for repository research (optional, defaults to GITHUB_TOKEN env var)")
	installCommand.Flags().StringVar(&installModel, "model", "", "Gemini model name (optional, defaults to GEMINI_MODEL env var)")

	rootCmd.AddCommand(installCommand)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	printBanner(os.Stdout)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.APIKey == "" {
		fmt.Println("GEMINI_API_KEY not found in environment")
		cfg.APIKey = promptSecret("Enter your Gemini API key: ")
	}
	if cfg.APIKey == "" {
		return &intake.InputError{Field: "api-key", Message: "a Gemini API key is required (flag, config, or GEMINI_API_KEY)"}
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = promptOptionalToken()
	}

	collector := intake.NewCollector(os.Stdin, os.Stdout)
	intent, err := collector.Collect(types.ProjectIntent{
		Name:              cfg.Name,
		Description:       cfg.Description,
		Location:          cfg.Location,
		RequestedPackages: intake.ParsePackageList(cfg.Packages),
	})
	if err != nil {
		return err
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig().WithModel(cfg.Model), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	provisioner := provision.NewProvisioner()
	provisioner.Progress = os.Stdout

	outcome, err := pipeline.Run(ctx, pipeline.Options{
		Intent: intent,
		Aggregator: &recommend.Aggregator{
			Advisor:  advisory.NewLLMAdvisor(llmClient),
			Searcher: registry.NewGitHubClient(cfg.GitHubToken),
			Index:    registry.NewPyPIClient(),
			Progress: os.Stdout,
		},
		Controller:  approval.NewController(os.Stdin, os.Stdout),
		Provisioner: provisioner,
		Out:         os.Stdout,
		Verbose:     cfg.Verbose,
	})
	if errors.Is(err, approval.ErrAborted) {
		fmt.Println("\nAborted; nothing was installed.")
		return err
	}
	if err != nil {
		return err
	}

	printSummary(os.Stdout, outcome)
	// Partial install failure still exits 0; the summary lists the failures.
	return nil
}

// resolveConfig merges the config file, explicit flags, and environment,
// in that order of increasing priority for flags and decreasing for env.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config

	if installConfigPath != "" {
		loadedCfg, err := config.LoadConfig(installConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if installVerbose {
			fmt.Printf("Loaded config from: %s\n", installConfigPath)
		}
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("name") {
		cfg.Name = installName
	}
	if cmd.Flags().Changed("description") {
		cfg.Description = installDescription
	}
	if cmd.Flags().Changed("location") {
		cfg.Location = installLocation
	}
	if cmd.Flags().Changed("packages") {
		cfg.Packages = installPackages
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = installAPIKey
	}
	if cmd.Flags().Changed("github-token") {
		cfg.GitHubToken = installGitHubToken
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = installModel
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = installVerbose
	}

	return cfg.MergeWithEnv(), nil
}

// promptSecret reads a line with echo disabled when stdin is a terminal.
func promptSecret(prompt string) string {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(secret))
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// promptOptionalToken offers the GitHub token prompt without requiring it.
func promptOptionalToken() string {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}

	fmt.Println("GitHub token not found (optional, improves registry research rate limits)")
	fmt.Print("Do you want to provide a GitHub token? [y/N] ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return ""
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer != "y" && answer != "yes" {
		return ""
	}
	return promptSecret("Enter your GitHub token: ")
}

//nolint:errcheck // banner and summary output is best-effort
func printBanner(out io.Writer) {
	banner := `
╔═══════════════════════════════════════════════╗
║                  pkgscout                     ║
║   intelligent Python project scaffolding      ║
╚═══════════════════════════════════════════════╝
`
	color.New(color.Bold, color.FgCyan).Fprintln(out, banner)
}

//nolint:errcheck // banner and summary output is best-effort
func printSummary(out io.Writer, outcome *pipeline.Outcome) {
	bold := color.New(color.Bold)

	color.New(color.Bold, color.FgCyan).Fprintf(out, "\n═══ Installation Complete ═══\n\n")
	bold.Fprint(out, "Project: ")
	fmt.Fprintln(out, outcome.Intent.Name)
	bold.Fprint(out, "Location: ")
	fmt.Fprintln(out, outcome.ProjectDir)
	bold.Fprint(out, "Virtual Environment: ")
	fmt.Fprintln(out, outcome.VenvPath)
	fmt.Fprintln(out)

	if len(outcome.Install.Installed) > 0 {
		color.New(color.Bold, color.FgGreen).Fprintln(out, "✓ Successfully installed packages:")
		for _, pkg := range outcome.Install.Installed {
			fmt.Fprintf(out, "  • %s\n", pkg)
		}
		fmt.Fprintln(out)
	}

	if len(outcome.Install.Failed) > 0 {
		color.New(color.Bold, color.FgRed).Fprintln(out, "✗ Failed to install:")
		for _, failure := range outcome.Install.Failed {
			fmt.Fprintf(out, "  • %s: %s\n", failure.Package, failure.Error)
		}
		fmt.Fprintln(out)
	}

	bold.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. cd %s\n", outcome.ProjectDir)
	fmt.Fprintf(out, "  2. source %s/bin/activate\n", provision.VenvDirName)
	fmt.Fprintln(out, "  3. Start coding!")
}
