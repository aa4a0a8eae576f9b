package app

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	blockEmit bool

	blockCmd = &cobra.Command{
		Use:   "block <identifier>",
		Short: "Exclude an application from wrapper generation",
		Long: `Add an application identifier to the blocklist.

A blocked application never gets a wrapper, regardless of inventory. An
existing wrapper for it is removed on the next 'flatwrap generate'.`,
		Example: `  flatwrap block org.example.NoisyApp`,
		RunE:    runBlock,
	}

	unblockCmd = &cobra.Command{
		Use:   "unblock <identifier>",
		Short: "Remove an application from the blocklist",
		RunE:  runUnblock,
	}

	blocklistCmd = &cobra.Command{
		Use:   "blocklist",
		Short: "Show blocked application identifiers",
		RunE:  runBlocklist,
	}
)

func init() {
	blockCmd.Flags().BoolVar(&blockEmit, "emit", false, "print the change without writing")
	unblockCmd.Flags().BoolVar(&blockEmit, "emit", false, "print the change without writing")
}

func runBlock(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return invalidInputf("usage: flatwrap block <identifier>")
	}
	id := args[0]

	cfg, err := configStore()
	if err != nil {
		return err
	}

	if blockEmit {
		fmt.Printf("would block %s\n", id)
		return nil
	}
	if err := cfg.Block(id); err != nil {
		return invalidInputf("%v", err)
	}
	fmt.Printf("blocked %s; run 'flatwrap generate' to remove its wrapper\n", id)
	return nil
}

func runUnblock(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return invalidInputf("usage: flatwrap unblock <identifier>")
	}
	id := args[0]

	cfg, err := configStore()
	if err != nil {
		return err
	}

	if blockEmit {
		fmt.Printf("would unblock %s\n", id)
		return nil
	}
	removed, err := cfg.Unblock(id)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundf("%s is not blocked", id)
	}
	fmt.Printf("unblocked %s\n", id)
	return nil
}

func runBlocklist(cmd *cobra.Command, args []string) error {
	cfg, err := configStore()
	if err != nil {
		return err
	}

	blocked, err := cfg.Blocklist()
	if err != nil {
		return err
	}
	if len(blocked) == 0 {
		fmt.Println("blocklist is empty")
		return nil
	}

	ids := make([]string, 0, len(blocked))
	for id := range blocked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
