package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sadapurne/producer-verification/dto"
	"github.com/sadapurne/producer-verification/service"
)

// runConsole drives the interactive four-step verification flow on the
// terminal, mirroring the /verify endpoint with a document path instead
// of uploaded bytes.
func runConsole(verificationService *service.VerificationService) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to Sadapurne Producer Verification")
	fmt.Println(strings.Repeat("=", 55))
	fmt.Println("I'll help you verify your producer identity in four simple steps:")
	fmt.Println("1. Aadhaar number input")
	fmt.Println("2. Name cross-checking")
	fmt.Println("3. Certificate type validation")
	fmt.Println("4. FSSAI document format validation")
	fmt.Println()

	for {
		fmt.Println("Step 1: Please enter your Aadhaar number:")
		aadhar := prompt(scanner)
		if aadhar == "" {
			fmt.Println("Aadhaar number cannot be empty. Please try again.")
			continue
		}

		fmt.Println("\nStep 2: Please enter your full name as it appears on your FSSAI document:")
		name := prompt(scanner)
		if name == "" {
			fmt.Println("Name cannot be empty. Please try again.")
			continue
		}

		fmt.Println("\nStep 3: Please enter the path to your FSSAI document:")
		documentPath := prompt(scanner)
		if documentPath == "" {
			fmt.Println("Document path cannot be empty. Please try again.")
			continue
		}

		documentData, err := os.ReadFile(documentPath)
		if err != nil {
			fmt.Printf("Could not read file: %s\n", documentPath)
			if !askYesNo(scanner, "Would you like to try again? (y/yes to retry, any other key to exit): ") {
				fmt.Println("Thank you for using Sadapurne Producer Verification. Goodbye!")
				return
			}
			continue
		}

		fmt.Println("\nStep 4: Please enter your annual income in rupees:")
		incomeInput := strings.ReplaceAll(prompt(scanner), ",", "")
		income, err := strconv.ParseFloat(incomeInput, 64)
		if err != nil {
			fmt.Println("Invalid income. Please enter a number.")
			continue
		}

		fmt.Println("\nVerifying your information. Please wait...")
		result := verificationService.VerifyProducer(context.Background(), name, documentData, income, aadhar)

		printResult(result)

		fmt.Println("\n" + strings.Repeat("=", 50))
		if !askYesNo(scanner, "Would you like to verify another producer? (y/yes to continue, any other key to exit): ") {
			fmt.Println("Thank you for using Sadapurne Producer Verification. Goodbye!")
			return
		}
		fmt.Println()
	}
}

func printResult(result *dto.VerificationResult) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	if result.Status == dto.StatusSuccess {
		fmt.Println("VERIFICATION SUCCESSFUL!")
		fmt.Println(result.Message)
		if result.NameDetails != nil {
			fmt.Printf("\nName Verified: %s\n", result.NameDetails.ProvidedName)
		}
		fmt.Printf("Certificate Type: %s\n", result.CertificateType)
		fmt.Printf("Confirmation PIN: %d\n", result.Pin)
		fmt.Println("Document Format: Valid")
		if result.DataStored != nil && *result.DataStored {
			fmt.Println("\nYou have been successfully verified and your data has been stored!")
		} else {
			fmt.Println("\nYou have been successfully verified! (Note: Data storage failed)")
		}
		return
	}

	fmt.Println("VERIFICATION FAILED")
	fmt.Printf("Stage: %s\n", result.Stage)
	fmt.Printf("Reason: %s\n", result.Message)

	if len(result.Issues) > 0 {
		fmt.Println("\nIssues found:")
		for _, issue := range result.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}

	if result.Details != nil {
		fmt.Println("\nDetails:")
		fmt.Printf("  Provided Name: %s\n", result.Details.ProvidedName)
		fmt.Printf("  Document Name: %s\n", result.Details.BusinessName)
	}
}

func prompt(scanner *bufio.Scanner) string {
	fmt.Print("> ")
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func askYesNo(scanner *bufio.Scanner, question string) bool {
	fmt.Print(question)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
