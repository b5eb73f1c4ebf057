package cli

import (
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	flags analysisFlags
	opts  Options
}

// NewAnalyzeCmd 单次分析
func NewAnalyzeCmd(opts Options) *cobra.Command {
	ac := &AnalyzeCmd{opts: opts}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a flight data file once",
		Args:  cobra.NoArgs,
		RunE:  ac.run,
	}
	ac.flags.bind(cmd)
	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	cfg, dcfg, err := ac.flags.load(cmd)
	if err != nil {
		return err
	}

	r, err := newRunner(cfg, dcfg, ac.opts)
	if err != nil {
		return err
	}
	defer r.close()

	if err := r.run(); err != nil {
		r.logger.Error(err.Error())
		return err
	}
	return nil
}
