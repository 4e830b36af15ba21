package main

import (
	"fmt"
	"io"
	"os"

	"github.com/filegram/filegram/config"
	"github.com/filegram/filegram/logger"
	"github.com/urfave/cli"
)

const version = "0.1.0"

func main() {
	if err := newApp(os.Stdin).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "fig:", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader) *cli.App {
	app := cli.NewApp()
	app.Name = "fig"
	app.Usage = "Store any file as the pixels of a lossless image, and back"
	app.Version = version
	app.Flags = getFlags()
	app.Commands = []cli.Command{
		{
			Name:   "encode",
			Usage:  "convert a file (or stdin) into an image",
			Flags:  getEncodeFlags(),
			Action: action(stdin, parseEncode),
		},
		{
			Name:   "decode",
			Usage:  "convert an image back into the original file",
			Flags:  getDecodeFlags(),
			Action: action(stdin, parseDecode),
		},
		{
			Name:  "key",
			Usage: "manage key files",
			Subcommands: []cli.Command{
				{
					Name:   "split",
					Usage:  "split a key file into Shamir shares",
					Flags:  getKeySplitFlags(),
					Action: action(stdin, parseKeySplit),
				},
				{
					Name:      "combine",
					Usage:     "rebuild a key file from Shamir shares",
					ArgsUsage: "SHARE...",
					Flags:     getKeyCombineFlags(),
					Action:    action(stdin, parseKeyCombine),
				},
			},
		},
	}
	return app
}

// action parses the command line into a command and runs it.
func action(stdin io.Reader, parse func(*cli.Context) (command, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		cmd, err := parse(c)
		if err != nil {
			return err
		}
		env, err := newEnvironment(c, stdin)
		if err != nil {
			return err
		}
		return env.execute(cmd)
	}
}

func newEnvironment(c *cli.Context, stdin io.Reader) (*environment, error) {
	cfg, err := config.NewConfig(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if level := c.GlobalString("level"); level != "" {
		cfg.LogLevel, err = logger.ParseLevel(level)
		if err != nil {
			return nil, err
		}
	}

	log := logger.NewLogger(cfg.LogLevel)
	if c.App.ErrWriter != nil {
		log.SetWriter(c.App.ErrWriter)
	} else {
		log.SetWriter(os.Stderr)
	}

	return &environment{
		config: cfg,
		log:    log,
		stdin:  stdin,
	}, nil
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "level, l",
			Usage: "logging level [debug|info|warn|error]",
		},
	}
}

func getEncodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "file, f",
			Usage: "read input from `FILE` (default: stdin)",
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write the image to `FILE` (default: input path plus image extension, or output.png)",
		},
		cli.BoolFlag{
			Name:  "encrypted, e",
			Usage: "encrypt the input and write a key file",
		},
		cli.StringFlag{
			Name:  "key, k",
			Usage: "write the key to `FILE` (default: key.file setting)",
		},
		cli.StringFlag{
			Name:  "engine",
			Usage: "AEAD engine [chacha20-poly1305|aes-gcm] (default: cipher.engine setting)",
		},
	}
}

func getDecodeFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "file, f",
			Usage: "read the image from `FILE`",
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write the decoded data to `FILE` (default: image path without extension)",
		},
		cli.BoolFlag{
			Name:  "encrypted, e",
			Usage: "decrypt the decoded data with a key file",
		},
		cli.StringFlag{
			Name:  "key, k",
			Usage: "read the key from `FILE` (default: key.file setting)",
		},
	}
}

func getKeySplitFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "key, k",
			Usage: "key `FILE` to split (default: key.file setting)",
		},
		cli.IntFlag{
			Name:  "shares, n",
			Usage: "number of shares to create",
			Value: 3,
		},
		cli.IntFlag{
			Name:  "threshold, t",
			Usage: "number of shares required to rebuild the key",
			Value: 2,
		},
		cli.StringFlag{
			Name:  "output-dir, d",
			Usage: "write shares into `DIR` (default: directory of the key file)",
		},
	}
}

func getKeyCombineFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "output, o",
			Usage: "write the rebuilt key to `FILE` (default: key.file setting)",
		},
	}
}
