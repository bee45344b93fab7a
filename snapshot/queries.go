package snapshot

const proposalFields = `
	id
	type
	author
	title
	body
	ipfs
	space {
		id
	}
	choices
	created
	start
	end
	state
	network
	snapshot
	scores
	scores_total
	votes
`

var proposalsQuery = `
	query Proposals($spaceId: String!, $network: String!, $first: Int!, $skip: Int!) {
		proposals(first: $first, skip: $skip, where: {space_in: [$spaceId], network: $network}, orderBy: "created", orderDirection: desc) {` +
	proposalFields + `
		}
	}
`

var proposalQuery = `
	query Proposal($id: String!) {
		proposal(id: $id) {` +
	proposalFields + `
		}
	}
`

const votesQuery = `
	query Votes($proposal: String!, $first: Int!, $skip: Int!) {
		votes(first: $first, skip: $skip, where: {proposal: $proposal}, orderBy: "created", orderDirection: desc) {
			voter
			choice
			vp
			created
		}
	}
`
