package auth

import (
	"fmt"
	"strings"
)

// ShowTokenGuide prints how to create a personal access token with the
// scopes ghbot needs
func ShowTokenGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 GITHUB TOKEN GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("ghbot talks to the GitHub REST API with a personal access token.")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Open token settings")
	fmt.Println("   - Go to https://github.com/settings/tokens")
	fmt.Println("   - Choose 'Generate new token (classic)'")
	fmt.Println()

	fmt.Println("🔑 STEP 2: Select scopes")
	fmt.Println("   ┌─────────────┬──────────────────────────────────────────────┐")
	fmt.Println("   │ Scope       │ Used for                                     │")
	fmt.Println("   ├─────────────┼──────────────────────────────────────────────┤")
	fmt.Println("   │ user:follow │ follow and unfollow                          │")
	fmt.Println("   │ public_repo │ star and unstar                              │")
	fmt.Println("   └─────────────┴──────────────────────────────────────────────┘")
	fmt.Println()

	fmt.Println("📋 STEP 3: Copy the token")
	fmt.Println("   - It starts with ghp_ and is shown only once")
	fmt.Println("   - Run 'ghbot auth login' and paste it when asked")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • GITHUB_TOKEN in the environment or .env works without a login")
	fmt.Println("   • Give the token an expiry and rotate it")
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • The token can act as your account within its scopes")
	fmt.Println("   • NEVER commit it or share it")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickTokenGuide is the one-line version
func ShowQuickTokenGuide() {
	fmt.Println("\n🔑 Quick Guide: github.com/settings/tokens → classic token → scopes user:follow, public_repo")
	fmt.Println("   Type 'help' for detailed instructions")
}
