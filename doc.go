// Package dougs is a typed client for the Dougs accounting API.
//
// A Client authenticates with the user's credentials, keeps the session
// cookie fresh, retries transient server failures and validates every
// response before returning it:
//
//	client := dougs.New(dougs.Credentials{
//		Username: "jane@example.com",
//		Password: "secret",
//	})
//
//	me, err := client.GetMe(ctx)
//	if err != nil {
//		return err
//	}
//
//	op, err := client.RegisterExpense(ctx, me.Company.ID, dougs.ExpenseInfos{
//		Date:       time.Now(),
//		Amount:     12345, // cents
//		CategoryID: 7,
//		PartnerID:  3,
//	})
//
// Callers never handle sessions: the first call logs in, and later calls log
// in again once the session is within the renewal threshold of its expiry.
//
// # Errors
//
// Failures can be classified with errors.Is:
//
//   - ErrAuthentication: login rejected or no usable session cookie;
//   - ErrValidation: a response (or caller input) has an unexpected shape;
//   - ErrTransientHTTP: a retryable status survived every retry;
//   - ErrPermanentHTTP: any other non-2xx status or a network failure;
//   - ErrUnsupportedAttachment: an invoice file type outside pdf, jpeg, png.
//
// *HTTPError, *schema.ValidationError and *UnsupportedAttachmentError carry
// the status code, field path or filename respectively.
//
// # Configuration
//
// Behaviour is tuned with functional options (WithBaseURL, WithMaxRetries,
// WithBackoff, WithSessionThreshold, WithLogger, ...). Credentials can be
// read from DOUGS_USERNAME and DOUGS_PASSWORD with LoadCredentials.
package dougs
