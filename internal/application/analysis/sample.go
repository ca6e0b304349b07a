package analysis

// SampleContract is a deliberately one-sided freelance agreement used by the
// CLI "sample" command and by tests. It trips most catalog patterns.
const SampleContract = `FREELANCE SERVICE AGREEMENT

This Freelance Service Agreement ("Agreement") is entered into as of January 16, 2026, by and between XYZ Corporation ("Client") and Freelancer ("Service Provider").

1. SCOPE OF WORK
Service Provider agrees to provide web development services as specified in Exhibit A attached hereto.

2. PAYMENT TERMS
2.1 The total project fee is INR 2,00,000 (Two Lakhs Rupees).
2.2 Payment shall be made within ninety (90) days of invoice submission (Net-90).
2.3 No upfront payment shall be provided.

3. INTELLECTUAL PROPERTY RIGHTS
3.1 All work product, including but not limited to code, designs, documentation, and any derivative works, shall be the exclusive property of the Client.
3.2 Service Provider hereby assigns all right, title, and interest in perpetuity to the Client.
3.3 Service Provider waives all moral rights to the work product.

4. LIABILITY AND INDEMNIFICATION
4.1 Service Provider agrees to indemnify and hold harmless the Client from any and all claims, damages, losses, and expenses, including attorney's fees, arising from the Service Provider's work.
4.2 There shall be no limit to the Service Provider's liability under this Agreement.
4.3 Service Provider's liability shall include consequential damages and lost profits.

5. CONFIDENTIALITY
5.1 Service Provider agrees to maintain strict confidentiality of all Client information.
5.2 Confidentiality obligations shall survive termination of this Agreement indefinitely.

6. TERM AND TERMINATION
6.1 Client may terminate this Agreement at any time with seven (7) days written notice.
6.2 Service Provider may terminate this Agreement with thirty (30) days written notice.
6.3 Upon termination by Service Provider, Client shall have no obligation to pay for work completed.

7. NON-COMPETE
7.1 For a period of two (2) years following termination, Service Provider shall not engage in similar work for any competitor of the Client.

8. DISPUTE RESOLUTION
8.1 Any disputes shall be resolved exclusively in the courts of Delaware, United States.
8.2 Service Provider waives the right to jury trial.

9. GENERAL PROVISIONS
9.1 This Agreement constitutes the entire agreement between the parties.
9.2 This Agreement shall be governed by the laws of Delaware, United States.
9.3 Service Provider is an independent contractor and not an employee.

IN WITNESS WHEREOF, the parties have executed this Agreement as of the date first written above.

_______________________          _______________________
Client Signature                 Service Provider Signature
XYZ Corporation                  [Your Name]
`
