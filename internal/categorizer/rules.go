package categorizer

import (
	"fmt"
	"os"
	"strings"

	"moneymap/internal/logging"
	"moneymap/internal/models"
	"moneymap/internal/textutils"

	"gopkg.in/yaml.v3"
)

// RuleKey identifies a deterministic rule by the verbatim source category
// pair the bank supplied. Lookups are exact and case-sensitive.
type RuleKey struct {
	SourceCategory    string
	SourceSubcategory string
}

// RuleTarget is the Money Map classification a rule maps to.
type RuleTarget struct {
	Category    models.Category
	Subcategory string
}

// RuleMatcher resolves transactions against a static rule table, with an
// internal-transfer keyword check that takes precedence over the table.
// It is read-only after construction and never fails: no match means the
// transaction falls through to the classifier tier.
type RuleMatcher struct {
	table            map[RuleKey]RuleTarget
	transferKeywords []string
	logger           logging.Logger
}

// defaultTransferKeywords mark movements between the user's own accounts.
// Matched case-insensitively as substrings of the normalized description.
var defaultTransferKeywords = []string{
	"internal transfer",
	"own account",
	"transfer to savings",
	"transfer from savings",
	"account sweep",
}

// defaultRuleTable maps known bank source-category pairs straight to Money
// Map categories, bypassing the classifier entirely.
var defaultRuleTable = map[RuleKey]RuleTarget{
	{"Income", "Salary"}:                {models.CategoryIncome, "Salary"},
	{"Income", "Benefits"}:              {models.CategoryIncome, "Benefits"},
	{"Income", "Interest"}:              {models.CategoryIncome, "Interest"},
	{"Housing", "Rent"}:                 {models.CategoryCore, "Housing"},
	{"Housing", "Mortgage"}:             {models.CategoryCore, "Housing"},
	{"Bills", "Utilities"}:              {models.CategoryCore, "Utilities"},
	{"Bills", "Telecom"}:                {models.CategoryCore, "Utilities"},
	{"Groceries", "Supermarket"}:        {models.CategoryCore, "Groceries"},
	{"Insurance", "Health"}:             {models.CategoryCore, "Insurance"},
	{"Transport", "Public Transport"}:   {models.CategoryCore, "Transport"},
	{"Dining", "Restaurants"}:           {models.CategoryChoice, "Dining"},
	{"Entertainment", "Streaming"}:      {models.CategoryChoice, "Subscriptions"},
	{"Shopping", "Clothing"}:            {models.CategoryChoice, "Shopping"},
	{"Savings", "Deposit"}:              {models.CategoryCompound, "Savings"},
	{"Investments", "Brokerage"}:        {models.CategoryCompound, "Investing"},
	{"Debt", "Extra Repayment"}:         {models.CategoryCompound, "Debt Paydown"},
	{"Fees", "Chargeback"}:              {models.CategoryExcluded, ""},
}

// NewRuleMatcher creates a matcher over the built-in rule table and
// transfer keywords.
func NewRuleMatcher(logger logging.Logger) *RuleMatcher {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleMatcher{
		table:            defaultRuleTable,
		transferKeywords: defaultTransferKeywords,
		logger:           logger,
	}
}

// ruleFileFormat is the YAML layout of a rules override file.
type ruleFileFormat struct {
	TransferKeywords []string `yaml:"transfer_keywords"`
	Rules            []struct {
		SourceCategory    string `yaml:"source_category"`
		SourceSubcategory string `yaml:"source_subcategory"`
		Category          string `yaml:"category"`
		Subcategory       string `yaml:"subcategory"`
	} `yaml:"rules"`
}

// NewRuleMatcherFromFile loads the rule table from a YAML file. An empty
// path or absent file falls back to the built-in table; a present but
// invalid file is an error, since silently dropping rules would change
// classification behavior.
func NewRuleMatcherFromFile(path string, logger logging.Logger) (*RuleMatcher, error) {
	matcher := NewRuleMatcher(logger)
	if path == "" {
		return matcher, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			matcher.logger.WithField("path", path).Debug("Rules file not found, using built-in table")
			return matcher, nil
		}
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file ruleFileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	table := make(map[RuleKey]RuleTarget, len(file.Rules))
	for _, rule := range file.Rules {
		category, err := models.ParseCategory(rule.Category)
		if err != nil {
			return nil, fmt.Errorf("invalid rule for (%s, %s): %w",
				rule.SourceCategory, rule.SourceSubcategory, err)
		}
		table[RuleKey{rule.SourceCategory, rule.SourceSubcategory}] = RuleTarget{category, rule.Subcategory}
	}
	matcher.table = table

	if len(file.TransferKeywords) > 0 {
		keywords := make([]string, len(file.TransferKeywords))
		for i, kw := range file.TransferKeywords {
			keywords[i] = strings.ToLower(kw)
		}
		matcher.transferKeywords = keywords
	}

	matcher.logger.WithFields(
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "rules", Value: len(table)},
	).Debug("Loaded rules file")
	return matcher, nil
}

// Resolve classifies a transaction deterministically, or reports no match
// so the caller defers to the classifier tier.
func (m *RuleMatcher) Resolve(tx models.Transaction) (models.ClassificationResult, bool) {
	// Internal transfers are excluded regardless of what the rule table
	// would say about the source categories.
	description := textutils.NormalizeKey(tx.Description)
	for _, keyword := range m.transferKeywords {
		if strings.Contains(description, keyword) {
			m.logger.WithFields(
				logging.Field{Key: "id", Value: tx.ID},
				logging.Field{Key: "keyword", Value: keyword},
			).Debug("Transaction excluded as internal transfer")
			return models.ClassificationResult{
				ID:         tx.ID,
				Category:   models.CategoryExcluded,
				Confidence: 1.0,
			}, true
		}
	}

	target, found := m.table[RuleKey{tx.SourceCategory, tx.SourceSubcategory}]
	if !found {
		return models.ClassificationResult{}, false
	}

	m.logger.WithFields(
		logging.Field{Key: "id", Value: tx.ID},
		logging.Field{Key: "category", Value: target.Category},
	).Debug("Transaction categorized by rule table")

	return models.ClassificationResult{
		ID:          tx.ID,
		Category:    target.Category,
		Subcategory: target.Subcategory,
		Confidence:  1.0,
	}, true
}
