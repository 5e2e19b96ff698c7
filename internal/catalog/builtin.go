// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"fmt"
	"slices"
	"time"

	"github.com/noldarim/showcase/internal/models"
	"github.com/samber/lo"
)

// DefaultTheme is used when nothing else is configured
const DefaultTheme = "agentbuilder"

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func info(msg string, delay int) ScriptEntry {
	return ScriptEntry{Message: msg, Delay: ms(delay), Level: models.LevelInfo}
}

func success(msg string, delay int) ScriptEntry {
	return ScriptEntry{Message: msg, Delay: ms(delay), Level: models.LevelSuccess}
}

func warning(msg string, delay int) ScriptEntry {
	return ScriptEntry{Message: msg, Delay: ms(delay), Level: models.LevelWarning}
}

var builtins = map[string]func() Theme{
	"agentbuilder":  agentBuilder,
	"contractguard": contractGuard,
}

// Builtin returns a copy of the named built-in theme
func Builtin(name string) (Theme, error) {
	mk, ok := builtins[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, BuiltinNames())
	}
	return mk(), nil
}

// BuiltinNames returns the names of all built-in themes, sorted
func BuiltinNames() []string {
	names := lo.Keys(builtins)
	slices.Sort(names)
	return names
}

func agentBuilder() Theme {
	const planner = "Research Planner Agent (Oumi + Together AI)"
	return Theme{
		Name:        "agentbuilder",
		Title:       "AgentBuilder",
		Headline:    "Building Your Application",
		Tagline:     "From idea to deployed app, one agent at a time",
		Placeholder: "Build a task management app with real-time collaboration, user authentication, and a clean dashboard",
		Stages: []StageDefinition{
			{
				ID:          "research",
				Name:        "Research",
				Description: "Analyzing requirements and gathering context",
				Agent:       planner,
				Script: []ScriptEntry{
					info("🔍 Initializing research agent...", 300),
					info("📊 Analyzing project requirements", 600),
					info("🌐 Gathering reference materials", 800),
					success("✅ Research phase completed", 1000),
				},
			},
			{
				ID:          "spec",
				Name:        "Specification",
				Description: "Creating technical specification",
				Agent:       planner,
				Script: []ScriptEntry{
					info("📝 Generating technical specification...", 400),
					info("🏗️ Defining architecture and components", 700),
					info("📋 Creating task breakdown", 900),
					success("✅ Specification saved to spec.json", 1100),
				},
			},
			{
				ID:          "build",
				Name:        "Build",
				Description: "Implementing and testing code",
				Agent:       "Engineering Agent (Cline)",
				Script: []ScriptEntry{
					info("⚙️ Starting Cline engineering agent...", 300),
					info("🔨 Scaffolding project structure", 700),
					info("💻 Implementing core features", 1200),
					info("🧪 Running test suite", 1600),
					success("✅ All tests passing", 2000),
				},
			},
			{
				ID:          "review",
				Name:        "Review",
				Description: "Quality assurance and PR review",
				Agent:       "Reviewer Agent (CodeRabbit)",
				Script: []ScriptEntry{
					info("👀 CodeRabbit analyzing changes...", 400),
					info("🔍 Checking code quality and standards", 800),
					warning("⚠️ Minor suggestion: Add error handling", 1200),
					success("✅ PR approved - ready to merge", 1600),
				},
			},
			{
				ID:          "deploy",
				Name:        "Deploy",
				Description: "Deploying to production",
				Agent:       "Orchestrator Agent (Kestra)",
				Script: []ScriptEntry{
					info("🚀 Initiating deployment sequence...", 400),
					info("📦 Building production bundle", 800),
					info("☁️ Deploying to Vercel", 1300),
					success("🌍 Application live at https://your-app.vercel.app", 1800),
				},
			},
		},
		Results: Results{
			Title:   "Application Successfully Built and Deployed",
			Summary: "Your application has been built with modern best practices and deployed to production.",
			Links: []Link{
				{Label: "Live app", URL: "https://your-awesome-app.vercel.app"},
				{Label: "Repository", URL: "https://github.com/your-username/awesome-app"},
				{Label: "Research brief", URL: "https://example.com/research-brief.pdf"},
			},
			Highlights: []string{
				"Responsive design optimized for all devices",
				"User authentication with secure session management",
				"Real-time data synchronization",
				"Comprehensive test coverage (94%)",
				"Production-ready deployment on Vercel",
			},
			Tradeoffs: []string{
				"Used mock data for external APIs - you'll need to add real API keys",
				"Basic error handling implemented - consider adding more robust logging",
				"Optimized for MVP scope - some advanced features deferred to v2",
			},
			NextSteps: []string{
				"Review the deployed application and test all features",
				"Add your API keys to the environment variables",
				"Customize the branding and color scheme",
				"Set up analytics and monitoring",
				"Plan iteration cycles for additional features",
			},
			Stack: []string{"React 18", "TypeScript", "Tailwind CSS", "Vite", "Vercel"},
		},
		Reel: Reel{
			Loop: ms(19000),
			Scenes: []Scene{
				{Name: "intro", Caption: "AgentBuilder - AI Development Platform", At: 0},
				{Name: "prompt", Caption: "Describe the app you want to build", At: ms(2500)},
				{Name: "pipeline", Caption: "Pipeline starting: five agents take over", At: ms(4500)},
				{Name: "research", Caption: "Research and specification", At: ms(6500)},
				{Name: "build", Caption: "Engineering agent implements and tests", At: ms(9000)},
				{Name: "review", Caption: "CodeRabbit reviews the pull request", At: ms(11500)},
				{Name: "deploy", Caption: "Project Complete! Live on Vercel", At: ms(14000)},
				{Name: "outro", Caption: "Ready to Build?", At: ms(16500)},
			},
		},
	}
}

func contractGuard() Theme {
	const auditor = "Audit Agent (Slither + Mythril)"
	return Theme{
		Name:        "contractguard",
		Title:       "ContractGuard",
		Headline:    "Securing Your Contract",
		Tagline:     "Audit, explain, patch and test smart contracts automatically",
		Placeholder: "Audit the withdraw flow of my Solidity vault contract for reentrancy and access control issues",
		Stages: []StageDefinition{
			{
				ID:          "audit",
				Name:        "Audit",
				Description: "Scanning the contract for vulnerabilities",
				Agent:       auditor,
				Script: []ScriptEntry{
					info("🔍 Loading contract sources...", 300),
					info("🛡️ Running Slither static analysis", 600),
					info("🧬 Running Mythril symbolic execution", 800),
					warning("⚠️ Reentrancy risk found in withdraw()", 1000),
				},
			},
			{
				ID:          "explain",
				Name:        "Explain",
				Description: "Explaining findings in plain language",
				Agent:       "Explainer Agent (Together AI)",
				Script: []ScriptEntry{
					info("🧠 Reading audit findings...", 400),
					info("📖 Tracing external call before balance update", 700),
					info("📋 Ranking findings by severity", 900),
					success("✅ Explanation report ready", 1100),
				},
			},
			{
				ID:          "patch",
				Name:        "Patch",
				Description: "Generating a minimal fix",
				Agent:       "Patch Agent (Cline)",
				Script: []ScriptEntry{
					info("⚙️ Starting patch agent...", 300),
					info("🔒 Applying checks-effects-interactions", 700),
					info("🧱 Adding nonReentrant guard", 1200),
					info("🔑 Tightening access control on owner functions", 1600),
					success("✅ Patch compiled cleanly", 2000),
				},
			},
			{
				ID:          "test",
				Name:        "Test",
				Description: "Proving the fix with tests",
				Agent:       "Test Agent (Foundry)",
				Script: []ScriptEntry{
					info("🧪 Generating regression tests...", 400),
					info("▶️ testWithdraw, testReentrancyProtection, testBalanceUpdate", 800),
					info("▶️ testAccessControl, testEdgeCases", 1200),
					success("✅ 5/5 tests passed, 100% coverage", 1600),
				},
			},
			{
				ID:          "pr",
				Name:        "Pull Request",
				Description: "Opening a pull request with the fix",
				Agent:       "Orchestrator Agent (Kestra)",
				Script: []ScriptEntry{
					info("📝 Writing PR description...", 400),
					info("🔗 Linking audit report", 800),
					info("📤 Pushing branch fix/reentrancy-guard", 1300),
					success("🎉 Pull request created", 1800),
				},
			},
		},
		Results: Results{
			Title:   "Contract Secured and Pull Request Opened",
			Summary: "The vulnerabilities found in your contract were explained, patched and covered by tests.",
			Links: []Link{
				{Label: "Pull request", URL: "https://github.com/your-username/vault/pull/1"},
				{Label: "Audit report", URL: "https://example.com/audit-report.pdf"},
			},
			Highlights: []string{
				"Reentrancy in withdraw() fixed with checks-effects-interactions",
				"nonReentrant guard added to external entry points",
				"Owner-only functions restricted",
				"5 regression tests, 100% coverage of changed lines",
			},
			Tradeoffs: []string{
				"Gas cost of withdraw() increased slightly by the guard",
				"Findings below medium severity were reported but not patched",
			},
			NextSteps: []string{
				"Review and merge the pull request",
				"Schedule a manual audit before mainnet deployment",
				"Re-run the pipeline after further contract changes",
			},
			Stack: []string{"Solidity", "Slither", "Mythril", "Foundry"},
		},
		Reel: Reel{
			Loop: ms(20000),
			Scenes: []Scene{
				{Name: "upload", Caption: "Drop your contract here", At: 0},
				{Name: "pipeline", Caption: "Audit, Explain, Patch, Test, PR", At: ms(2500)},
				{Name: "scan", Caption: "Scanning for Vulnerabilities...", At: ms(5000)},
				{Name: "explain", Caption: "AI Explanation of the reentrancy risk", At: ms(7500)},
				{Name: "patch", Caption: "Patch applied", At: ms(10000)},
				{Name: "test", Caption: "All Tests Passed! 5/5 tests", At: ms(12500)},
				{Name: "pr", Caption: "Pull Request Created!", At: ms(15000)},
				{Name: "outro", Caption: "Ready to Secure Your Contracts?", At: ms(17500)},
			},
		},
	}
}
