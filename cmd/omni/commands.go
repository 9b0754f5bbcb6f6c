package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnitool/omni/internal/bitwarden"
	"github.com/omnitool/omni/internal/config"
	"github.com/omnitool/omni/internal/epicor"
	"github.com/omnitool/omni/internal/render"
	"github.com/omnitool/omni/internal/secrets"
	"github.com/omnitool/omni/internal/session"
)

var (
	setupClientID       string
	setupClientSecret   string
	setupMasterPassword string
	setupBaseURL        string
	setupAPIKey         string
	setupUsername       string
	setupPassword       string

	getItemType string
	getItemName string

	caseNumber    string
	caseAssignTo  string
	caseComment   string
	quoteQuantity float64
)

func init() {
	// setup command
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the vault and Epicor credentials omni uses",
		RunE:  runSetup,
	}
	setupCmd.Flags().StringVarP(&setupClientID, "client-id", "i", "", "Bitwarden client ID")
	setupCmd.Flags().StringVarP(&setupClientSecret, "client-secret", "s", "", "Bitwarden client secret")
	setupCmd.Flags().StringVarP(&setupMasterPassword, "master-password", "p", "", "Bitwarden master password")
	setupCmd.Flags().StringVarP(&setupBaseURL, "base-url", "u", "", "Epicor base URL")
	setupCmd.Flags().StringVarP(&setupAPIKey, "api-key", "k", "", "Epicor API key")
	setupCmd.Flags().StringVarP(&setupUsername, "username", "n", "", "Epicor username")
	setupCmd.Flags().StringVarP(&setupPassword, "password", "w", "", "Epicor password")
	for _, f := range []string{"client-id", "client-secret", "master-password", "base-url", "api-key", "username", "password"} {
		_ = setupCmd.MarkFlagRequired(f)
	}
	rootCmd.AddCommand(setupCmd)

	// bitwarden commands
	bitwardenCmd := &cobra.Command{
		Use:   "bitwarden",
		Short: "Interact with the Bitwarden vault",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vault items",
		RunE:  runBitwardenList,
	}
	bitwardenCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get a vault item by type and name",
		RunE:  runBitwardenGet,
	}
	getCmd.Flags().StringVarP(&getItemType, "type", "t", "", "item type (login|note|card|identity)")
	getCmd.Flags().StringVarP(&getItemName, "name", "n", "", "item name")
	_ = getCmd.MarkFlagRequired("type")
	_ = getCmd.MarkFlagRequired("name")
	bitwardenCmd.AddCommand(getCmd)

	rootCmd.AddCommand(bitwardenCmd)

	// epicor case commands
	epicorCmd := &cobra.Command{
		Use:   "epicor",
		Short: "Interact with Epicor ERP",
	}
	caseCmd := &cobra.Command{
		Use:   "case",
		Short: "Interact with Epicor cases",
	}
	epicorCmd.AddCommand(caseCmd)

	completeTaskCmd := &cobra.Command{
		Use:   "complete-task",
		Short: "Complete the current task for a case",
		RunE:  runCaseCompleteTask,
	}
	completeTaskCmd.Flags().StringVarP(&caseNumber, "case-number", "n", "", "Epicor case number")
	completeTaskCmd.Flags().StringVarP(&caseAssignTo, "assign-to", "a", "", "who the next task should be assigned to")
	completeTaskCmd.Flags().StringVarP(&caseComment, "comment", "c", "", "optional comment to add to the case")
	_ = completeTaskCmd.MarkFlagRequired("case-number")
	_ = completeTaskCmd.MarkFlagRequired("assign-to")
	caseCmd.AddCommand(completeTaskCmd)

	getStatusCmd := &cobra.Command{
		Use:   "get-status",
		Short: "Retrieve the current status of a case",
		RunE:  runCaseGetStatus,
	}
	getStatusCmd.Flags().StringVarP(&caseNumber, "case-number", "n", "", "Epicor case number")
	_ = getStatusCmd.MarkFlagRequired("case-number")
	caseCmd.AddCommand(getStatusCmd)

	addCommentCmd := &cobra.Command{
		Use:   "add-comment",
		Short: "Add a comment to a case",
		RunE:  runCaseAddComment,
	}
	addCommentCmd.Flags().StringVarP(&caseNumber, "case-number", "n", "", "Epicor case number")
	addCommentCmd.Flags().StringVarP(&caseComment, "comment", "c", "", "comment to add to the case")
	_ = addCommentCmd.MarkFlagRequired("case-number")
	_ = addCommentCmd.MarkFlagRequired("comment")
	caseCmd.AddCommand(addCommentCmd)

	lastCommentCmd := &cobra.Command{
		Use:   "last-comment",
		Short: "Show the most recent comment on a case",
		RunE:  runCaseLastComment,
	}
	lastCommentCmd.Flags().StringVarP(&caseNumber, "case-number", "n", "", "Epicor case number")
	_ = lastCommentCmd.MarkFlagRequired("case-number")
	caseCmd.AddCommand(lastCommentCmd)

	updateQuoteCmd := &cobra.Command{
		Use:   "update-quote",
		Short: "Update the quote quantity for a case",
		RunE:  runCaseUpdateQuote,
	}
	updateQuoteCmd.Flags().StringVarP(&caseNumber, "case-number", "c", "", "Epicor case number")
	updateQuoteCmd.Flags().Float64VarP(&quoteQuantity, "new-quantity", "n", 0, "new quantity for the case part")
	_ = updateQuoteCmd.MarkFlagRequired("case-number")
	_ = updateQuoteCmd.MarkFlagRequired("new-quantity")
	caseCmd.AddCommand(updateQuoteCmd)

	rootCmd.AddCommand(epicorCmd)
}

// loadSettings reads the settings file. The default path may be absent, but a
// path the user named explicitly must exist.
func loadSettings() (*config.Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
		return config.Load(configPath)
	}
	return config.Load(config.DefaultConfigPath())
}

func newRenderer(cfg *config.Config) *render.Renderer {
	return render.New(os.Stdout, cfg.Output.Color)
}

// vaultSession loads everything a bitwarden command needs: settings,
// credentials, an authenticated client, and its session.
func vaultSession(cmd *cobra.Command) (*config.Config, *bitwarden.Client, session.Session, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, nil, session.Session{}, err
	}

	creds, err := secrets.Load(cfg.SecretsPath)
	if err != nil {
		return nil, nil, session.Session{}, err
	}

	log := newLogger()
	client := bitwarden.New(cfg.Vault.IdentityURL, cfg.Vault.APIURL, &http.Client{Timeout: cfg.Timeout()})

	log.Debug().Str("identity_url", cfg.Vault.IdentityURL).Msg("authenticating to vault")
	sess, err := client.Authenticate(cmd.Context(), creds.VaultClientID, creds.VaultClientSecret, creds.VaultMasterPassword)
	if err != nil {
		return nil, nil, session.Session{}, fmt.Errorf("vault authentication failed: %w", err)
	}
	log.Debug().Time("expires_at", sess.ExpiresAt()).Msg("vault session established")

	return cfg, client, sess, nil
}

// epicorSession is the ERP counterpart of vaultSession.
func epicorSession(cmd *cobra.Command) (*config.Config, *epicor.Client, session.Session, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, nil, session.Session{}, err
	}

	creds, err := secrets.Load(cfg.SecretsPath)
	if err != nil {
		return nil, nil, session.Session{}, err
	}

	log := newLogger()
	client := epicor.New(creds.ErpBaseURL, creds.ErpAPIKey, &http.Client{Timeout: cfg.Timeout()})

	log.Debug().Str("base_url", creds.ErpBaseURL).Msg("authenticating to epicor")
	sess, err := client.Authenticate(cmd.Context(), creds.ErpUsername, creds.ErpPassword)
	if err != nil {
		return nil, nil, session.Session{}, fmt.Errorf("epicor authentication failed: %w", err)
	}
	log.Debug().Time("expires_at", sess.ExpiresAt()).Msg("epicor session established")

	return cfg, client, sess, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	creds := secrets.Credentials{
		VaultClientID:       setupClientID,
		VaultClientSecret:   setupClientSecret,
		VaultMasterPassword: setupMasterPassword,
		ErpBaseURL:          setupBaseURL,
		ErpAPIKey:           setupAPIKey,
		ErpUsername:         setupUsername,
		ErpPassword:         setupPassword,
	}

	if err := secrets.Save(cfg.SecretsPath, creds); err != nil {
		return err
	}

	newRenderer(cfg).Success("Credentials saved to " + cfg.SecretsPath)
	return nil
}

func runBitwardenList(cmd *cobra.Command, args []string) error {
	cfg, client, sess, err := vaultSession(cmd)
	if err != nil {
		return err
	}

	items, err := client.ListItems(cmd.Context(), sess)
	if err != nil {
		return err
	}

	newRenderer(cfg).Items(items)
	return nil
}

func runBitwardenGet(cmd *cobra.Command, args []string) error {
	itemType, err := bitwarden.ParseItemType(getItemType)
	if err != nil {
		return err
	}

	cfg, client, sess, err := vaultSession(cmd)
	if err != nil {
		return err
	}

	item, err := client.GetItem(cmd.Context(), sess, itemType, getItemName)
	if err != nil {
		return err
	}

	newRenderer(cfg).Item(item)
	return nil
}

func runCaseCompleteTask(cmd *cobra.Command, args []string) error {
	cfg, client, sess, err := epicorSession(cmd)
	if err != nil {
		return err
	}

	if err := client.CompleteTask(cmd.Context(), sess, caseNumber, caseAssignTo, caseComment); err != nil {
		return err
	}

	newRenderer(cfg).Success("Task Completed")
	return nil
}

func runCaseGetStatus(cmd *cobra.Command, args []string) error {
	cfg, client, sess, err := epicorSession(cmd)
	if err != nil {
		return err
	}

	status, err := client.GetStatus(cmd.Context(), sess, caseNumber)
	if err != nil {
		return err
	}

	newRenderer(cfg).CaseStatus(caseNumber, status)
	return nil
}

func runCaseAddComment(cmd *cobra.Command, args []string) error {
	cfg, client, sess, err := epicorSession(cmd)
	if err != nil {
		return err
	}

	if err := client.AddComment(cmd.Context(), sess, caseNumber, caseComment); err != nil {
		return err
	}

	newRenderer(cfg).Success("Comment Added to Case")
	return nil
}

func runCaseLastComment(cmd *cobra.Command, args []string) error {
	cfg, client, sess, err := epicorSession(cmd)
	if err != nil {
		return err
	}

	comment, err := client.LastComment(cmd.Context(), sess, caseNumber)
	if err != nil {
		return err
	}

	newRenderer(cfg).Comment(comment)
	return nil
}

func runCaseUpdateQuote(cmd *cobra.Command, args []string) error {
	cfg, client, sess, err := epicorSession(cmd)
	if err != nil {
		return err
	}

	if err := client.UpdateQuote(cmd.Context(), sess, caseNumber, quoteQuantity); err != nil {
		return err
	}

	newRenderer(cfg).Success("Quote Updated and Attached to Case")
	return nil
}
