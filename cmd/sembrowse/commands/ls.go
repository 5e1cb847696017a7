package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/sembrowse/am"
	"github.com/teranos/sembrowse/browse"
	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/logger"
	"github.com/teranos/sembrowse/tree"
)

// LsCmd prints part of the hierarchy
var LsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "Print a subtree of the attribute hierarchy",
	Long: `Print the namespace hierarchy below path (the root when omitted).

Examples:
  sembrowse ls --root otel=./model
  sembrowse ls http.request --depth 1
  sembrowse ls root.db --usage`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

var (
	lsRoots []string
	lsDepth int
	lsUsage bool
)

func init() {
	LsCmd.Flags().StringArrayVar(&lsRoots, "root", nil, "Registry root as nick=path (repeatable)")
	LsCmd.Flags().IntVarP(&lsDepth, "depth", "d", 0, "Levels to print below path (0 = all)")
	LsCmd.Flags().BoolVar(&lsUsage, "usage", false, "Collect Honeycomb usage and show datasets per attribute")
}

func runLs(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	corpora, err := resolveCorpora(cfg, lsRoots)
	if err != nil {
		return err
	}

	opts := browse.Options{Corpora: corpora, Usage: usageOptions(cfg)}
	if lsUsage {
		cfg.Usage.Enabled = true
		if client, ok := usageClient(cfg); ok {
			opts.Backend = client
		}
	}
	index, err := browse.Build(cmd.Context(), opts, logger.ComponentLogger("browse"))
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	node, ok := index.Lookup(path)
	if !ok {
		return errors.Mark(errors.Newf("no attributes under %q", browse.NormalizeName(path)), errors.ErrNotFound)
	}

	out, err := pterm.DefaultTree.WithRoot(renderTree(node, lsDepth)).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render tree")
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// renderTree converts node into a pterm tree, stopping depth levels below
// it. A depth of zero or less prints everything.
func renderTree(node *browse.Node, depth int) pterm.TreeNode {
	var root pterm.TreeNode
	// stack[i] is the rendered node at level i of the current walk path.
	stack := []*pterm.TreeNode{&root}
	_ = node.Walk(func(n *browse.Node, level int) error {
		if level == 0 {
			root.Text = nodeLabel(n)
			if n.Path == "" {
				root.Text = tree.RootName
			}
			return nil
		}
		parent := stack[level-1]
		collapsed := depth > 0 && level == depth
		text := nodeLabel(n)
		if collapsed {
			text = collapsedLabel(n)
		}
		parent.Children = append(parent.Children, pterm.TreeNode{Text: text})
		stack = append(stack[:level], &parent.Children[len(parent.Children)-1])
		if collapsed {
			return tree.SkipChildren
		}
		return nil
	})
	return root
}

func nodeLabel(node *browse.Node) string {
	attr, ok := node.Value()
	if !ok {
		return node.Name
	}
	label := node.Name
	if t := attr.TypeLabel(); t != "" {
		label += " " + pterm.Gray(t)
	}
	if attr.IsDeprecated() {
		label += " " + pterm.Yellow("deprecated")
	}
	if n := len(attr.UsedBy); n > 0 {
		label += fmt.Sprintf(" %s", pterm.Green(fmt.Sprintf("%d datasets", n)))
	}
	return label
}

func collapsedLabel(node *browse.Node) string {
	label := nodeLabel(node)
	if !node.IsLeaf() {
		label += " " + pterm.Gray(fmt.Sprintf("(+%d)", node.Len()))
	}
	return label
}
