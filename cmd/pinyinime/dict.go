package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kechako/pinyinime/dict"
)

var (
	dictName       string
	delimiter      string
	outputFile     string
	inputEncoding  string
	outputEncoding string

	dictCmd = &cobra.Command{
		Use:   "dict",
		Short: "Maintain pinyin dictionary files",
	}

	mergeCmd = &cobra.Command{
		Use:   "merge dict1 [[+-^]dict2]...",
		Short: "Merge dictionaries",
		Long: `Merge reads dictionaries in order. A '+' adds the entries of the following
files, '-' removes them and '^' keeps only the entries also found in them.
A sign attached to a file name applies to that file alone. Without files
the dictionary is read from standard input.`,
		RunE: runMerge,
	}

	buildCmd = &cobra.Command{
		Use:   "build [wordlist]...",
		Short: "Build a dictionary from plain word lists",
		Long: `Build reads "word [weight]" lines, derives the pinyin reading of every
word and writes the result as a dictionary. Without files the word list is
read from standard input.`,
		RunE: runBuild,
	}
)

func init() {
	dictCmd.PersistentFlags().StringVarP(&dictName, "name", "n", "", "The dictionary name.")
	dictCmd.PersistentFlags().StringVarP(&delimiter, "delimiter", "d", "", "The delimiter joining the comments of merged entries.")
	dictCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "The output file. Standard output if not set.")
	dictCmd.PersistentFlags().StringVarP(&outputEncoding, "output-encoding", "e", "", "The output encoding (utf-8, gb18030, gbk, big5).")
	mergeCmd.Flags().StringVarP(&inputEncoding, "input-encoding", "i", "", "The input encoding. Detected from the coding header if not set.")

	dictCmd.AddCommand(mergeCmd, buildCmd)
}

func newDictionary() *dict.Dictionary {
	var opts []dict.Option
	if delimiter != "" {
		opts = append(opts, dict.WithCommentDelimiter(delimiter))
	}
	return dict.New(dictName, opts...)
}

func writeDictionary(dic *dict.Dictionary, stdout io.Writer) error {
	output := stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %s: %w", outputFile, err)
		}
		defer file.Close()
		output = file
	}

	var opts []dict.WriteOption
	if outputEncoding != "" {
		opts = append(opts, dict.WithOutputEncoding(dict.Encoding(outputEncoding)))
	}
	if err := dic.Write(output, opts...); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	var readOpts []dict.ReadOption
	if inputEncoding != "" {
		readOpts = append(readOpts, dict.WithInputEncoding(dict.Encoding(inputEncoding)))
	}

	dic := newDictionary()
	if len(args) == 0 {
		if err := dic.Read(cmd.InOrStdin(), dict.Add, readOpts...); err != nil {
			return fmt.Errorf("failed to read dictionary: %w", err)
		}
		return writeDictionary(dic, cmd.OutOrStdout())
	}

	if err := mergeFiles(dic, args, readOpts...); err != nil {
		return err
	}
	return writeDictionary(dic, cmd.OutOrStdout())
}

func mergeFiles(dic *dict.Dictionary, args []string, opts ...dict.ReadOption) error {
	read := func(name string, mode dict.MergeMode) error {
		if err := dic.ReadFile(name, mode, opts...); err != nil {
			return fmt.Errorf("failed to read dictionary: %w", err)
		}
		return nil
	}

	mode := dict.Add
	for _, arg := range args {
		if arg == "" {
			continue
		}
		var signed dict.MergeMode
		switch arg[0] {
		case '+':
			signed = dict.Add
		case '-':
			signed = dict.Sub
		case '^':
			signed = dict.And
		default:
			if err := read(arg, mode); err != nil {
				return err
			}
			continue
		}

		if len(arg) == 1 {
			mode = signed
			continue
		}
		if err := read(arg[1:], signed); err != nil {
			return err
		}
		mode = dict.Add
	}
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	var words []dict.Word
	if len(args) == 0 {
		ws, err := dict.ReadWords(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read word list: %w", err)
		}
		words = ws
	}
	for _, name := range args {
		file, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open word list: %w", err)
		}
		ws, err := dict.ReadWords(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to read word list: %s: %w", name, err)
		}
		words = append(words, ws...)
	}

	dic := newDictionary()
	if n := dic.Build(words); n < len(words) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d words have no reading\n", len(words)-n, len(words))
	}
	return writeDictionary(dic, cmd.OutOrStdout())
}
