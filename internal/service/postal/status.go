package postal

import (
	"errors"
	"fmt"

	"github.com/iamasit07/cep-connect4/backend/internal/domain"
)

func errorStatus(msg string) domain.Status {
	return domain.Status{Kind: domain.StatusError, Message: msg}
}

func successStatus(msg string) domain.Status {
	return domain.Status{Kind: domain.StatusSuccess, Message: msg}
}

// LookupStatus turns the outcome of Lookup into the line shown to the user.
func LookupStatus(res domain.LookupResult, err error) domain.Status {
	switch {
	case errors.Is(err, domain.ErrInvalidCEP):
		return errorStatus(domain.MsgInvalidCEP)
	case err != nil:
		return errorStatus(domain.MsgLookupFailed)
	case !res.Found:
		return errorStatus(domain.MsgCEPNotFound)
	}
	return successStatus(domain.MsgAddressFound)
}

// TimeoutLookupStatus is LookupStatus for LookupWithTimeout. Any failure
// that is not a bad code is reported as a timeout.
func TimeoutLookupStatus(res domain.LookupResult, err error) domain.Status {
	switch {
	case errors.Is(err, domain.ErrInvalidCEP):
		return errorStatus(domain.MsgInvalidCEP)
	case err != nil:
		return errorStatus(domain.MsgTimeout)
	case !res.Found:
		return errorStatus(domain.MsgCEPNotFound)
	}
	return successStatus(fmt.Sprintf(domain.MsgTimeoutFoundFmt, res.Address.Logradouro))
}

func BatchStatus(err error) domain.Status {
	switch {
	case errors.Is(err, domain.ErrNoValidCEP):
		return errorStatus(domain.MsgNoValidCEP)
	case err != nil:
		return errorStatus(domain.MsgBatchFailed)
	}
	return successStatus(domain.MsgBatchDone)
}

func SaveStatus(addr domain.Address, err error) domain.Status {
	if err != nil {
		return errorStatus(domain.MsgSaveFailed)
	}
	return successStatus(fmt.Sprintf(domain.MsgSavedFmt, addr.ID))
}
