package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hytalekt/stubgen/archive"
	"github.com/hytalekt/stubgen/classfile"
	"github.com/hytalekt/stubgen/signature"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <archive|file.class> [class]",
		Short: "Inspect classes and recovered constructor signatures",
		Long: `List the classes of an archive, or show one class in detail: its kind,
type parameters, superclass signature and the constructor signatures the
delegation resolver would match against.

A single .class file can be given instead of an archive.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var a *archive.Archive
			if strings.HasSuffix(args[0], ".class") {
				cf, err := classfile.ParseFile(args[0])
				if err != nil {
					return fmt.Errorf("parse class file: %w", err)
				}
				a = archive.FromClassFiles(cf)
				if len(args) == 1 {
					args = append(args, signature.Key(cf.Name))
				}
			} else {
				var err error
				a, err = archive.Load(args[0])
				if err != nil {
					return fmt.Errorf("load archive: %w", err)
				}
			}

			if len(args) == 1 {
				for _, name := range a.Names() {
					fmt.Printf("%-10s %s\n", a.Class(name).Kind, name)
				}
				return nil
			}

			cls := a.Class(args[1])
			if cls == nil {
				return fmt.Errorf("class %s not found in %s", args[1], args[0])
			}
			fmt.Printf("%s %s\n", cls.Kind, cls.Name)
			if tps := a.Index().TypeParams(cls.Name); len(tps) > 0 {
				fmt.Print("type params:")
				for _, tp := range tps {
					fmt.Printf(" %s", tp.Name)
					for _, b := range tp.Bounds {
						fmt.Printf(" extends %s", b.String())
					}
				}
				fmt.Println()
			}
			if super := a.Index().SuperSignature(cls.Name); super != nil {
				fmt.Printf("extends %s\n", super.String())
			}
			for _, ctor := range a.Index().Constructors(cls.Name) {
				fmt.Printf("  %s(", cls.SimpleName())
				for i, p := range ctor.Params {
					if i > 0 {
						fmt.Print(", ")
					}
					fmt.Print(p.String())
				}
				fmt.Println(")")
			}
			return nil
		},
	}
	return cmd
}
