package main

import (
	"WaiAutoReply/internal/config"
	jwtPkg "WaiAutoReply/pkg/jwt"
	"WaiAutoReply/pkg/knowledge"
	"WaiAutoReply/pkg/locale"
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/s3"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type askOutput struct {
	nlp.Decision
	Threshold float64           `json:"threshold"`
	Explain   []nlp.IntentScore `json:"explain,omitempty"`
}

func newRootCmd() *cobra.Command {
	var source string

	rootCmd := &cobra.Command{
		Use:   "kbtool",
		Short: "Inspect and exercise the auto-reply knowledge base",
		Long: `kbtool validates knowledge base files, answers test messages the same way
the service does and mints admin tokens for the knowledge endpoints.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&source, "source", "s", "", "Knowledge base source: embedded, a file path or s3://bucket/key (defaults to KNOWLEDGE_BASE_SOURCE)")

	rootCmd.AddCommand(
		newValidateCmd(&source),
		newAskCmd(&source),
		newSearchCmd(&source),
		newTokenCmd(),
	)

	return rootCmd
}

func newValidateCmd(source *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a knowledge base",
		Example: `  kbtool validate
  kbtool validate --source ./kb.yaml
  kbtool validate --source s3://wai-config/kb.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, src, err := loadKnowledgeBase(cmd.Context(), *source)
			if err != nil {
				return err
			}

			patterns := 0
			for _, intent := range kb.Intents() {
				patterns += len(intent.Patterns)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s has %d intents and %d patterns\n", src, kb.Len(), patterns)
			return nil
		},
	}
}

func newAskCmd(source *string) *cobra.Command {
	var (
		lang      string
		threshold float64
		explain   bool
	)

	cmd := &cobra.Command{
		Use:     "ask <text>",
		Short:   "Show the auto-reply decision for a message",
		Example: `  kbtool ask "price kay?"
  kbtool ask --lang en --explain "closing time"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, _, err := loadKnowledgeBase(cmd.Context(), *source)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("threshold") {
				threshold = appThreshold()
			}

			responder := nlp.NewResponder(nlp.NewMatcher(kb), nlp.WithThreshold(threshold))
			text := strings.Join(args, " ")

			decision := responder.Respond(text)
			if lang != "" {
				translator, err := locale.New("")
				if err != nil {
					return err
				}
				if reply, ok := translator.FixedReply(decision.Kind, lang); ok {
					decision.Reply = reply
				}
			}

			out := askOutput{Decision: decision, Threshold: threshold}
			if explain {
				out.Explain = responder.Explain(text)
			}

			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language for fixed replies (mr, en)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", nlp.DefaultConfidenceThreshold, "Confidence threshold (defaults to NLP_CONFIDENCE_THRESHOLD)")
	cmd.Flags().BoolVarP(&explain, "explain", "e", false, "Include the best pattern score of every intent")

	return cmd
}

func newSearchCmd(source *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search patterns across all intents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, _, err := loadKnowledgeBase(cmd.Context(), *source)
			if err != nil {
				return err
			}

			hits := knowledge.Search(kb, strings.Join(args, " "), limit)
			if len(hits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matching patterns")
				return nil
			}

			for _, hit := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %4d  %s\n", hit.Tag, hit.Score, hit.Pattern)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of hits (0 for all)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		secret  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:     "token",
		Short:   "Mint an admin bearer token for the knowledge endpoints",
		Example: `  kbtool token --subject ops@waibusinesspro --ttl 1h`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				if cfg, err := config.LoadAppConfig(); err == nil {
					secret = cfg.AdminJWTSecret
				}
			}

			token, expiresAt, err := jwtPkg.SignAdmin(secret, subject, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject, usually the operator email")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to ADMIN_JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func loadKnowledgeBase(ctx context.Context, source string) (*nlp.KnowledgeBase, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if source == "" {
		source = knowledge.SourceEmbedded
		if cfg, err := config.LoadAppConfig(); err == nil && cfg.KnowledgeBaseSource != "" {
			source = cfg.KnowledgeBaseSource
		}
	}

	var objects knowledge.ObjectReader
	if strings.HasPrefix(source, "s3://") {
		client, err := s3.New()
		if err != nil {
			return nil, source, fmt.Errorf("create S3 client: %w", err)
		}
		objects = client
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	kb, err := knowledge.NewLoader(logger, config.NewValidator(), objects).Load(ctx, source)
	if err != nil {
		return nil, source, err
	}

	return kb, source, nil
}

func appThreshold() float64 {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nlp.DefaultConfidenceThreshold
	}
	return cfg.ConfidenceThreshold
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := jsoniter.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
