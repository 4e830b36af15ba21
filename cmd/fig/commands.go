package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/filegram/filegram"
	"github.com/filegram/filegram/config"
	"github.com/filegram/filegram/imagefile"
	"github.com/filegram/filegram/logger"
	"github.com/filegram/filegram/util"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

type commandKind int

const (
	commandEncode commandKind = iota
	commandDecode
	commandKeySplit
	commandKeyCombine
)

// command is one parsed invocation. Only the args field matching kind is set.
type command struct {
	kind       commandKind
	encode     encodeArgs
	decode     decodeArgs
	keySplit   keySplitArgs
	keyCombine keyCombineArgs
}

type encodeArgs struct {
	file      string
	output    string
	encrypted bool
	key       string
	engine    string
}

type decodeArgs struct {
	file      string
	output    string
	encrypted bool
	key       string
}

type keySplitArgs struct {
	key       string
	shares    int
	threshold int
	outputDir string
}

type keyCombineArgs struct {
	output string
	shares []string
}

type environment struct {
	config *config.Config
	log    logger.Logger
	stdin  io.Reader
}

func parseEncode(c *cli.Context) (command, error) {
	return command{
		kind: commandEncode,
		encode: encodeArgs{
			file:      c.String("file"),
			output:    c.String("output"),
			encrypted: c.Bool("encrypted"),
			key:       c.String("key"),
			engine:    c.String("engine"),
		},
	}, nil
}

func parseDecode(c *cli.Context) (command, error) {
	if c.String("file") == "" {
		return command{}, errors.New("decode: --file is required")
	}
	return command{
		kind: commandDecode,
		decode: decodeArgs{
			file:      c.String("file"),
			output:    c.String("output"),
			encrypted: c.Bool("encrypted"),
			key:       c.String("key"),
		},
	}, nil
}

func parseKeySplit(c *cli.Context) (command, error) {
	return command{
		kind: commandKeySplit,
		keySplit: keySplitArgs{
			key:       c.String("key"),
			shares:    c.Int("shares"),
			threshold: c.Int("threshold"),
			outputDir: c.String("output-dir"),
		},
	}, nil
}

func parseKeyCombine(c *cli.Context) (command, error) {
	if c.NArg() == 0 {
		return command{}, errors.New("key combine: at least one share file is required")
	}
	return command{
		kind: commandKeyCombine,
		keyCombine: keyCombineArgs{
			output: c.String("output"),
			shares: []string(c.Args()),
		},
	}, nil
}

func (env *environment) execute(cmd command) error {
	switch cmd.kind {
	case commandEncode:
		return env.runEncode(&cmd.encode)
	case commandDecode:
		return env.runDecode(&cmd.decode)
	case commandKeySplit:
		return env.runKeySplit(&cmd.keySplit)
	case commandKeyCombine:
		return env.runKeyCombine(&cmd.keyCombine)
	}
	return errors.Errorf("unknown command %d", cmd.kind)
}

func (env *environment) runEncode(args *encodeArgs) error {
	output, format, err := env.encodeOutput(args)
	if err != nil {
		return err
	}

	input := env.stdin
	if args.file != "" {
		f, err := os.Open(args.file)
		if err != nil {
			return errors.Wrap(err, "failed to open input")
		}
		defer f.Close()
		input = f
	}

	engine := args.engine
	if engine == "" {
		engine = env.config.Engine
	}
	grid, artifact, err := filegram.EncodeStream(input, filegram.EncodeOptions{
		Encrypt: args.encrypted,
		Engine:  engine,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode input")
	}

	if artifact != nil {
		defer artifact.Zeroize()

		keyFile := env.keyFile(args.key)
		if _, err := os.Stat(keyFile); err == nil {
			env.log.Warnf("Replacing existing key file %s", keyFile)
		}
		if err := writeKeyArtifact(keyFile, artifact, env.config.KeyFormat); err != nil {
			return err
		}
		env.log.Infof("Wrote %s key to %s", artifact.Engine, keyFile)
	}

	buf := bytes.Buffer{}
	if err := imagefile.Write(&buf, grid, format); err != nil {
		return errors.Wrap(err, "failed to encode image")
	}
	if err := atomic.WriteFile(output, &buf); err != nil {
		return errors.Wrapf(err, "failed to write %s", output)
	}

	env.log.Infof("Encoded input into a %dx%d %s image at %s (%s of pixels)",
		grid.Width, grid.Height, format, output, humanize.IBytes(uint64(len(grid.Pix))))
	return nil
}

func (env *environment) runDecode(args *decodeArgs) error {
	output := args.output
	if output == "" {
		output = defaultDecodeOutput(args.file)
	}

	f, err := os.Open(args.file)
	if err != nil {
		return errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	img, format, err := imagefile.Read(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", args.file)
	}
	env.log.Debugf("Read %s image %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())

	var artifact *filegram.KeyArtifact
	if args.encrypted {
		keyFile := env.keyFile(args.key)
		artifact, err = readKeyArtifact(keyFile)
		if err != nil {
			return err
		}
		defer artifact.Zeroize()
	}

	data, err := filegram.DecodeImage(img, artifact)
	if err != nil {
		return errors.Wrapf(err, "failed to decode %s", args.file)
	}

	if err := atomic.WriteFile(output, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to write %s", output)
	}

	env.log.Infof("Decoded %s to %s", humanize.IBytes(uint64(len(data))), output)
	return nil
}

func (env *environment) runKeySplit(args *keySplitArgs) error {
	keyFile := env.keyFile(args.key)
	artifact, err := readKeyArtifact(keyFile)
	if err != nil {
		return err
	}
	defer artifact.Zeroize()

	shares, err := filegram.SplitKeyArtifact(artifact, args.shares, args.threshold)
	if err != nil {
		return errors.Wrap(err, "failed to split key")
	}
	defer util.SafeZeroMem(shares...)

	outputDir := args.outputDir
	if outputDir == "" {
		outputDir = filepath.Dir(keyFile)
	}
	for idx, share := range shares {
		path := filepath.Join(outputDir, filepath.Base(keyFile)+".share-"+strconv.Itoa(idx+1))
		if err := atomic.WriteFile(path, bytes.NewReader(share)); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		env.log.Debugf("Wrote share %d to %s", idx+1, path)
	}

	env.log.Infof("Split %s into %d shares, %d required to rebuild it", keyFile, len(shares), args.threshold)
	return nil
}

func (env *environment) runKeyCombine(args *keyCombineArgs) error {
	shares := make([][]byte, 0, len(args.shares))
	defer func() {
		util.SafeZeroMem(shares...)
	}()
	for _, path := range args.shares {
		share, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "failed to read share")
		}
		shares = append(shares, share)
	}

	artifact, err := filegram.CombineKeyArtifact(shares)
	if err != nil {
		return errors.Wrap(err, "failed to combine shares")
	}
	defer artifact.Zeroize()

	output := env.keyFile(args.output)
	if err := writeKeyArtifact(output, artifact, env.config.KeyFormat); err != nil {
		return err
	}

	env.log.Infof("Rebuilt key from %d shares into %s", len(shares), output)
	return nil
}

// encodeOutput picks the output path and the image format. An explicit path with an unknown
// extension is written in the configured format.
func (env *environment) encodeOutput(args *encodeArgs) (string, imagefile.Format, error) {
	if args.output == "" {
		base := "output"
		if args.file != "" {
			base = args.file
		}
		return base + env.config.ImageFormat.Extension(), env.config.ImageFormat, nil
	}

	format, err := imagefile.FormatFromPath(args.output)
	if err != nil {
		if errors.Is(err, imagefile.ErrLossyFormat) {
			return "", 0, errors.Wrapf(err, "cannot write %s", args.output)
		}
		env.log.Warnf("Unknown image extension in %s, writing %s", args.output, env.config.ImageFormat)
		format = env.config.ImageFormat
	}
	return args.output, format, nil
}

func (env *environment) keyFile(path string) string {
	if path != "" {
		return path
	}
	return env.config.KeyFile
}

func defaultDecodeOutput(file string) string {
	ext := filepath.Ext(file)
	if _, err := imagefile.ParseFormat(ext); err == nil && len(ext) > 0 {
		return strings.TrimSuffix(file, ext)
	}
	return file + ".decoded"
}

func writeKeyArtifact(path string, artifact *filegram.KeyArtifact, format filegram.KeyFormat) error {
	buf := bytes.Buffer{}
	if err := filegram.WriteKeyArtifact(&buf, artifact, format); err != nil {
		return errors.Wrap(err, "failed to serialize key")
	}
	defer util.SafeZeroMem(buf.Bytes())

	if err := atomic.WriteFile(path, bytes.NewReader(buf.Bytes())); err != nil {
		return errors.Wrapf(err, "failed to write key file %s", path)
	}
	return nil
}

func readKeyArtifact(path string) (*filegram.KeyArtifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open key file")
	}
	defer f.Close()

	artifact, err := filegram.ReadKeyArtifact(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load key file %s", path)
	}
	return artifact, nil
}
