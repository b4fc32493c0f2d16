package nft

import "errors"

var (
	ErrNonexistentToken    = errors.New("ERC721: invalid token ID")
	ErrNotOwnerNorApproved = errors.New("ERC721: caller is not token owner or approved")
	ErrApproveToOwner      = errors.New("ERC721: approval to current owner")
	ErrApproveToCaller     = errors.New("ERC721: approve to caller")
	ErrIncorrectOwner      = errors.New("ERC721: transfer from incorrect owner")
	ErrTransferToZero      = errors.New("ERC721: transfer to the zero address")
	ErrZeroAddress         = errors.New("ERC721: address zero is not a valid owner")
	ErrNotBasicNft         = errors.New("contract is not a BasicNft")
)

var revertErrors = []error{
	ErrNonexistentToken,
	ErrNotOwnerNorApproved,
	ErrApproveToOwner,
	ErrApproveToCaller,
	ErrIncorrectOwner,
	ErrTransferToZero,
	ErrZeroAddress,
}

// RevertReason returns the message of the ERC721 error wrapped by err.
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
