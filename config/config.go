package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Will be set by go-build
var (
	Version string
	Rev     string
)

//go:embed folio.example.yml
var exampleConfig string

const DefaultUpstream = "https://qt.gtimg.cn"

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	showVersion := pflag.BoolP("version", "v", false, "Show version number")
	showHelp := pflag.BoolP("help", "h", false, "Show usage message")
	pflag.CommandLine.MarkHidden("help")
	pflag.BoolP("debug", "d", false, "Enable debug mode")
	pflag.BoolP("list-relays", "l", false, "List configured relays in the order they are tried")
	pflag.IntP("refresh", "r", 30, "Auto refresh on every specified seconds, 0 fetches once and exits")

	var configFile string
	pflag.StringVarP(&configFile, "config-file", "c", "", `Config file path, use "--example-config-file <path>" `+
		"to generate an example config file,\n"+
		"by default folio uses \"folio.yml\" in current directory or $HOME as config file")
	var exampleConfigFile string
	pflag.StringVar(&exampleConfigFile, "example-config-file", "",
		"Generate example config file to the specified file path, by default it outputs to stdout")
	pflag.Lookup("example-config-file").NoOptDefVal = "-"

	pflag.StringSliceP("show", "s", supportedColumns(), "Only show comma-separated columns")
	pflag.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	pflag.IntP("timeout", "t", 8, "Per-relay HTTP request timeout in seconds")
	pflag.String("upstream", DefaultUpstream, "Quote source, only ever reached through relays")
	pflag.String("serve", "", "Run the CORS relay server on the given address (eg. \":8787\")")
	pflag.String("metrics", "", "Expose Prometheus metrics on the given address while ticking")
	pflag.String("content-dir", "", "Directory holding about.md and content/<id>.md")
	pflag.String("content-url", "", "Base URL holding about.md and content/<id>.md")
	pflag.Bool("list-posts", false, "List posts, newest first")
	pflag.String("search", "", "List posts whose title, description, body or tags contain the text")
	pflag.String("tag", "", "List posts carrying the tag")
	pflag.String("post", "", "Print a post by id")
	pflag.String("sitemap", "", "Write sitemap.xml to the specified file path, \"-\" for stdout")
	pflag.CommandLine.SortFlags = false
	pflag.Usage = showUsageAndExit
	pflag.Parse()

	if *showHelp {
		showUsageAndExit()
	}

	if *showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	if exampleConfigFile != "" {
		writeExampleConfig(exampleConfigFile)
		os.Exit(0)
	}

	v := viper.GetViper()
	v.BindPFlags(pflag.CommandLine)
	// Set configure file
	v.SetConfigName("folio") // name of config file (without extension)
	v.AddConfigPath(".")     // path to look for the config file in
	v.AddConfigPath("$HOME") // optionally look for config in the HOME directory
	v.AddConfigPath("/etc")  // and /etc
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	err := v.ReadInConfig() // Find and read the config file
	if err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			logrus.Debugln("No config file found, using built-in holdings and relays")
		default:
			logrus.Warnf("Error reading config file: %v", err)
		}
	}
	cfg, err := fromViper(v)
	if err != nil {
		logrus.Fatalf("Failed to parse %q, error: %s\n", v.ConfigFileUsed(), err)
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugln("Using config file:", v.ConfigFileUsed())
	return cfg
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.Upstream == "" {
		cfg.Upstream = DefaultUpstream
	}
	// command-line content locations take precedence
	if dir := v.GetString("content-dir"); dir != "" {
		cfg.Content.Dir = dir
	}
	if baseURL := v.GetString("content-url"); baseURL != "" {
		cfg.Content.BaseURL = baseURL
	}
	cfg.applyDefaults()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks holdings weights, symbols and relay definitions.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func showUsageAndExit() {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nTrack your stock holdings in the terminal, quotes are fetched through an ordered list of relays")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nWhile ticking, press Enter (or \"r\" then Enter) to refresh now, \"q\" then Enter to quit.")
	os.Exit(0)
}

func writeExampleConfig(fpath string) {
	fout, err := os.Stdout, error(nil)
	if fpath != "-" {
		if _, err := os.Stat(fpath); err == nil {
			logrus.Warnf("%s already exists, skipping", fpath)
			return
		}
		if fout, err = os.Create(fpath); err != nil {
			logrus.Errorf("Failed to create config file %s, error: %v", fpath, err)
			return
		}
		defer fout.Close()
	}
	if _, err := fout.WriteString(exampleConfig); err != nil {
		logrus.Errorf("Failed to write config file %s, error: %v", fpath, err)
	} else if fout != os.Stdout {
		logrus.Infof("Write example config file to %s", fpath)
	}
}

func ListRelaysAndExit(relays []Relay) {
	fmt.Fprintln(os.Stderr, "Relays, tried in order:")
	for i, r := range relays {
		fmt.Fprintf(os.Stderr, " %d. %s (%s) %s\n", i+1, r.Label, r.Style, r.URL)
	}
	os.Exit(0)
}
