package marketplace

import (
	"errors"
)

var (
	ErrPriceMustBeAboveZero      = errors.New("NftMarketplace__PriceMustBeAboveZero")
	ErrNotApprovedForMarketplace = errors.New("NftMarketplace__NotApprovedForMarketplace")
	ErrAlreadyListed             = errors.New("NftMarketplace__AlreadyListed")
	ErrNotOwner                  = errors.New("NftMarketplace__NotOwner")
	ErrNotListed                 = errors.New("NftMarketplace__NotListed")
	ErrPriceNotMet               = errors.New("NftMarketplace__PriceNotMet")
	ErrNoProceeds                = errors.New("NftMarketplace__NoProceeds")
	ErrTransferFailed            = errors.New("NftMarketplace__TransferFailed")
	ErrUnsupportedNft            = errors.New("NftMarketplace__UnsupportedNft")
	ErrReentrantCall             = errors.New("ReentrancyGuard: reentrant call")
	ErrNonPayable                = errors.New("function is not payable")
	ErrProceedsOverflow          = errors.New("proceeds overflow")
	ErrNotNftMarketplace         = errors.New("contract is not an NftMarketplace")
)

var revertErrors = []error{
	ErrPriceMustBeAboveZero,
	ErrNotApprovedForMarketplace,
	ErrAlreadyListed,
	ErrNotOwner,
	ErrNotListed,
	ErrPriceNotMet,
	ErrNoProceeds,
	ErrTransferFailed,
	ErrUnsupportedNft,
	ErrReentrantCall,
	ErrNonPayable,
	ErrProceedsOverflow,
}

// RevertReason returns the name of the marketplace error wrapped by err, or
// an empty string when err is not a marketplace revert.
func RevertReason(err error) string {
	for _, revertErr := range revertErrors {
		if errors.Is(err, revertErr) {
			return revertErr.Error()
		}
	}
	return ""
}

func ErrorByReason(reason string) (error, bool) {
	for _, revertErr := range revertErrors {
		if revertErr.Error() == reason {
			return revertErr, true
		}
	}
	return nil, false
}
